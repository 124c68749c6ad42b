// Package config loads tada's settings from defaults, TOML files, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
)

// File names looked up by Load.
const (
	AppName         = "tada"
	UserConfigName  = "config.toml"
	ProjectFileName = "tada.toml"
)

// Config is the resolved configuration.
type Config struct {
	APIURL     string   `toml:"api_url"`
	FetchLimit int      `toml:"fetch_limit"`
	UserID     int      `toml:"user_id"`
	Timeout    Duration `toml:"timeout"`
	Theme      string   `toml:"theme"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogFile   string `toml:"log_file"`

	// Fixture, when set, serves todos from a local JSON file instead of
	// APIURL.
	Fixture string `toml:"fixture"`
}

// Duration wraps time.Duration so TOML files can say "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q not allowed", s)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:     api.DefaultBaseURL,
		FetchLimit: api.DefaultLimit,
		UserID:     model.DefaultUserID,
		Timeout:    Duration{api.DefaultTimeout},
		Theme:      string(model.ThemeLight),
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if u, err := url.ParseRequestURI(c.APIURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("api_url: %q is not an http(s) url", c.APIURL))
	}
	if c.FetchLimit <= 0 {
		errs = append(errs, fmt.Errorf("fetch_limit: must be positive, got %d", c.FetchLimit))
	}
	if c.UserID <= 0 {
		errs = append(errs, fmt.Errorf("user_id: must be positive, got %d", c.UserID))
	}
	if c.Timeout.Duration <= 0 {
		errs = append(errs, fmt.Errorf("timeout: must be positive, got %s", c.Timeout))
	}
	if _, err := model.ParseTheme(c.Theme); err != nil {
		errs = append(errs, fmt.Errorf("theme: %w", err))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if _, err := logging.ParseFormatter(c.LogFormat); err != nil {
		errs = append(errs, fmt.Errorf("log_format: %w", err))
	}
	return errors.Join(errs...)
}

// LogOptions returns the logging settings.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{Level: c.LogLevel, Format: c.LogFormat, File: c.LogFile}
}

// APIConfig returns the HTTP client settings.
func (c *Config) APIConfig() api.Config {
	return api.Config{BaseURL: c.APIURL, Limit: c.FetchLimit, Timeout: c.Timeout.Duration}
}

// InitialTheme returns the configured theme, falling back to light.
func (c *Config) InitialTheme() model.Theme {
	th, err := model.ParseTheme(c.Theme)
	if err != nil {
		return model.ThemeLight
	}
	return th
}
