package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	YouTube     YouTubeConfig    `toml:"youtube"`
	Transcripts TranscriptConfig `toml:"transcripts"`
	Server      ServerConfig     `toml:"server"`
}

// YouTubeConfig contains YouTube Data API settings.
type YouTubeConfig struct {
	APIKey    string `toml:"api_key"`
	BatchSize int    `toml:"batch_size"` // Max video IDs per videos.list call
	PageSize  int    `toml:"page_size"`  // Results per channel listing page
}

// TranscriptConfig contains transcript retrieval settings.
//
// The transcript endpoint throttles far more aggressively than the Data API,
// hence the dedicated worker and rate limits.
type TranscriptConfig struct {
	Languages      []string `toml:"languages"`
	Workers        int      `toml:"workers"`
	RateLimit      float64  `toml:"rate_limit"` // Requests per second
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads a .env file if present and overlays environment values onto the config.
//
// YOUTUBE_API_KEY takes precedence over the TOML value so deployments can keep
// the key out of the config file.
func (c *Config) LoadEnv() {
	_ = godotenv.Load()

	if key := os.Getenv("YOUTUBE_API_KEY"); key != "" {
		c.YouTube.APIKey = key
	}
}

// Addr returns the host:port pair for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
