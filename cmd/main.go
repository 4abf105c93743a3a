package main

import (
	"context"
	"net/http"
	"os"

	"github.com/desertthunder/ytscribe/internal/services"
	"github.com/desertthunder/ytscribe/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	config.LoadEnv()

	var metadata services.MetadataService
	var channels services.ChannelService
	if config.YouTube.APIKey != "" {
		if svc, err := services.NewYouTubeService(context.Background(), config.YouTube.APIKey, config.YouTube.PageSize); err == nil {
			metadata = svc
			channels = svc
		} else {
			logger.Warn("failed to initialize YouTube service", "error", err)
		}
	}

	transcripts := services.NewTimedTextService("", config.Transcripts.Languages, &http.Client{})

	runner := NewRunner(RunnerOpts{
		Config:      config,
		ConfigPath:  configPath,
		Metadata:    metadata,
		Transcripts: transcripts,
		Channels:    channels,
		Logger:      logger,
	})

	app := &cli.Command{
		Name:     "ytscribe",
		Usage:    "Resolve YouTube videos and channels into metadata and transcripts",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
