// Package config loads host configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Window    WindowConfig
	UI        UIConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"KIOSK_PORT" default:"9166"`
	Host string `envconfig:"KIOSK_HOST" default:"127.0.0.1"`
}

// WindowConfig holds the defaults applied to windows created without
// explicit preferences.
type WindowConfig struct {
	DefaultWidth  int    `envconfig:"KIOSK_WINDOW_WIDTH" default:"1280"`
	DefaultHeight int    `envconfig:"KIOSK_WINDOW_HEIGHT" default:"960"`
	DefaultTitle  string `envconfig:"KIOSK_WINDOW_TITLE" default:"Kiosk"`
}

// UIConfig holds hosted UI configuration.
type UIConfig struct {
	// DocumentRoot is the directory of built UI assets served to windows.
	DocumentRoot string `envconfig:"KIOSK_UI_ROOT" default:"./ui/dist"`
	// BaseDocument is the document reference every window loads,
	// relative to the document root.
	BaseDocument string `envconfig:"KIOSK_UI_BASE_DOCUMENT" default:"index.html"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"KIOSK_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"KIOSK_LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"KIOSK_RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"KIOSK_RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"KIOSK_RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the host cannot run with.
func (c *Config) Validate() error {
	if c.Window.DefaultWidth <= 0 || c.Window.DefaultHeight <= 0 {
		return fmt.Errorf("window defaults must be positive, got %dx%d",
			c.Window.DefaultWidth, c.Window.DefaultHeight)
	}
	if c.UI.BaseDocument == "" {
		return fmt.Errorf("base document must not be empty")
	}
	return nil
}
