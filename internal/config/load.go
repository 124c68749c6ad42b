package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load resolves configuration from, lowest first:
// 1. Defaults
// 2. User config file ($TADA_CONFIG, $XDG_CONFIG_HOME/tada/config.toml or ~/.config/tada/config.toml)
// 3. Project config file (tada.toml in the current directory)
// 4. Environment variables
// 5. CLI flags
//
// Flags are registered on fs, so callers may add their own before calling
// Load and read fs.Args afterwards.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return nil
}

func findUserConfigFile() string {
	if p := os.Getenv("TADA_CONFIG"); p != "" {
		return p
	}
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, xdg)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config"))
	}
	for _, dir := range dirs {
		p := filepath.Join(dir, AppName, UserConfigName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func findProjectConfigFile() string {
	if _, err := os.Stat(ProjectFileName); err == nil {
		return ProjectFileName
	}
	return ""
}

// loadFromEnv overrides cfg from TADA_* variables. Empty variables are
// ignored; malformed numbers are an error.
func loadFromEnv(cfg *Config) error {
	var errs []error
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}

	str("TADA_API_URL", &cfg.APIURL)
	num("TADA_FETCH_LIMIT", &cfg.FetchLimit)
	num("TADA_USER_ID", &cfg.UserID)
	str("TADA_THEME", &cfg.Theme)
	str("TADA_LOG_LEVEL", &cfg.LogLevel)
	str("TADA_LOG_FORMAT", &cfg.LogFormat)
	str("TADA_LOG_FILE", &cfg.LogFile)
	str("TADA_FIXTURE", &cfg.Fixture)
	if v := os.Getenv("TADA_TIMEOUT"); v != "" {
		if err := cfg.Timeout.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("TADA_TIMEOUT: %w", err))
		}
	}
	return errors.Join(errs...)
}

func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet(AppName, flag.ContinueOnError)
	}
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "base URL of the todo service")
	fs.IntVar(&cfg.FetchLimit, "limit", cfg.FetchLimit, "maximum number of todos kept from a fetch")
	fs.IntVar(&cfg.UserID, "user-id", cfg.UserID, "owner of created todos")
	fs.DurationVar(&cfg.Timeout.Duration, "timeout", cfg.Timeout.Duration, "per-request timeout")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "light or dark")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text, json or logfmt")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file")
	fs.StringVar(&cfg.Fixture, "fixture", cfg.Fixture, "serve todos from a local JSON file")
	return fs.Parse(args)
}
