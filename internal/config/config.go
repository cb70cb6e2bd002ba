package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the runtime configuration shared by the CLI and the page server.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	UI      UIConfig      `mapstructure:"ui"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout of zero leaves the http.Client default in place.
	Timeout time.Duration `mapstructure:"timeout"`
}

type UIConfig struct {
	NoticeInterval time.Duration `mapstructure:"notice_interval"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DefaultBaseURL        = "http://localhost:8080/api/loans"
	DefaultNoticeInterval = 5 * time.Second
	DefaultServerAddr     = ":8090"
)

func defaults() map[string]any {
	return map[string]any{
		"api.base_url":       DefaultBaseURL,
		"api.timeout":        time.Duration(0),
		"ui.notice_interval": DefaultNoticeInterval,
		"server.addr":        DefaultServerAddr,
		"logging.level":      "info",
		"logging.format":     "console",
	}
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return errors.New("api.base_url is required")
	}
	parsed, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api.base_url: unsupported scheme %q", parsed.Scheme)
	}
	if cfg.API.Timeout < 0 {
		return errors.New("api.timeout must not be negative")
	}
	if cfg.UI.NoticeInterval < 0 {
		return errors.New("ui.notice_interval must not be negative")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", cfg.Logging.Level)
	}
	return nil
}
