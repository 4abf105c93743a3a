package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/ytscribe/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the configuration file from the template and reports whether
// the API key is usable.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	config.LoadEnv()

	r.writePlain("✓ Configuration ready at %s\n", configPath)

	if config.YouTube.APIKey == "" {
		r.writePlainln("No API key configured yet:")
		r.writePlain("1. Create an API key at https://console.cloud.google.com/apis/credentials\n")
		r.writePlain("2. Enable the YouTube Data API v3 for the project\n")
		r.writePlain("3. Set youtube.api_key in %s or export YOUTUBE_API_KEY\n", configPath)
		return fmt.Errorf("%w: youtube.api_key is not set", shared.ErrMissingAPIKey)
	}

	r.writePlain("API key configured (%d transcript workers, %v languages)\n",
		config.Transcripts.Workers, config.Transcripts.Languages)
	return nil
}
