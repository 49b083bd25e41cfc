// Package config provides configuration management for the sentinel-rfi
// browser service.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the complete application configuration loaded from environment
// variables.
type Config struct {
	Server  ServerConfig  `envPrefix:"SERVER_"`
	Archive ArchiveConfig `envPrefix:"ARCHIVE_"`
	Tiles   TilesConfig   `envPrefix:"TILES_"`
	View    ViewConfig    `envPrefix:"VIEW_"`
	Logging LoggingConfig `envPrefix:"LOG_"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ArchiveConfig contains archive compute service client configuration.
type ArchiveConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://archive.example.com"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
	// MaxResults caps the observation metadata loaded per session.
	MaxResults int `env:"MAX_RESULTS" envDefault:"5000"`
}

// TilesConfig contains rendering/tiling service client configuration.
type TilesConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://tiles.example.com"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// ViewConfig contains session view defaults.
type ViewConfig struct {
	// SampleRadius is the point-extraction sampling radius in archive
	// distance units.
	SampleRadius float64 `env:"SAMPLE_RADIUS" envDefault:"500"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// Load parses configuration from environment variables.
// It returns an error if required fields are missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{
		RequiredIfNoDef: true,
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive, got %s", c.Server.ReadTimeout)
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive, got %s", c.Server.WriteTimeout)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}

	if c.Archive.BaseURL == "" {
		return fmt.Errorf("archive base URL is required")
	}

	if c.Archive.Timeout <= 0 {
		return fmt.Errorf("archive timeout must be positive, got %s", c.Archive.Timeout)
	}

	if c.Archive.MaxResults < 1 {
		return fmt.Errorf("archive max results must be at least 1, got %d", c.Archive.MaxResults)
	}

	if c.Tiles.BaseURL == "" {
		return fmt.Errorf("tiles base URL is required")
	}

	if c.Tiles.Timeout <= 0 {
		return fmt.Errorf("tiles timeout must be positive, got %s", c.Tiles.Timeout)
	}

	if c.View.SampleRadius <= 0 {
		return fmt.Errorf("sample radius must be positive, got %f", c.View.SampleRadius)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format %q, must be one of: json, text", c.Logging.Format)
	}

	return nil
}

// Address returns the server listen address in the format "host:port".
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
