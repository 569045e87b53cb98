package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables consulted by Load.
const (
	envPrefix   = "VANTAGE_"
	envConfig   = "VANTAGE_CONFIG"
	envEnvFile  = "VANTAGE_ENV_FILE"
	defaultDotE = ".env"
)

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New())
//  2. YAML file: path, or VANTAGE_CONFIG when path is empty
//  3. dotenv file: VANTAGE_ENV_FILE, or ./.env when present
//  4. environment (prefix VANTAGE_)
func Load(_ context.Context, path string) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envConfig)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	if err := loadDotEnv(k); err != nil {
		return nil, err
	}

	// VANTAGE_BASE_URL -> base_url; underscores are kept to match koanf tags.
	envProvider := env.Provider(envPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
}

// loadDotEnv merges VANTAGE_* entries of a dotenv file without touching the
// process environment, so real env vars still win.
func loadDotEnv(k *koanf.Koanf) error {
	path := os.Getenv(envEnvFile)
	explicit := path != ""
	if !explicit {
		path = defaultDotE
	}

	vals, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}

	for key, val := range vals {
		if !strings.HasPrefix(key, envPrefix) || key == envConfig || key == envEnvFile {
			continue
		}
		if err := k.Set(envKey(key), val); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrLoadConfig, key, err)
		}
	}
	return nil
}

// Validate checks the fields every command depends on.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base_url must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.BaseURL)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RequestTimeoutMS < 0:
		return fmt.Errorf("%w: request_timeout_ms must not be negative", ErrInvalidConfig)
	case c.VisitorCacheSize <= 0:
		return fmt.Errorf("%w: visitor_cache_size must be positive", ErrInvalidConfig)
	case strings.TrimSpace(c.SessionFile) == "":
		return fmt.Errorf("%w: session_file must not be empty", ErrInvalidConfig)
	}

	if c.SessionPath != SessionPathCheckSession && c.SessionPath != SessionPathCheckAuth {
		return fmt.Errorf("%w: %w: session_path %q", ErrInvalidConfig, ErrUnknownPath, c.SessionPath)
	}
	if c.PortScanPath != PortScanPathDash && c.PortScanPath != PortScanPathUnderscore {
		return fmt.Errorf("%w: %w: port_scan_path %q", ErrInvalidConfig, ErrUnknownPath, c.PortScanPath)
	}
	return nil
}
