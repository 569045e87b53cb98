// Package config defines client and console configuration and its loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file, an optional .env file and
//   VANTAGE_* environment variables, in that order.
// - Validation failures wrap ErrInvalidConfig; load failures wrap ErrLoadConfig.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Backend path variants seen across deployments.
const (
	SessionPathCheckSession = "/api/check_session"
	SessionPathCheckAuth    = "/api/check-auth"
	PortScanPathDash        = "/api/port-scan"
	PortScanPathUnderscore  = "/api/port_scan"
)

// DefaultBaseURL is the deployed backend.
const DefaultBaseURL = "https://project-vantage-backend-ih0i.onrender.com"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// BaseURL is the backend origin, e.g. "http://127.0.0.1:5000".
	BaseURL string `koanf:"base_url"`

	// Addr is the console listen address.
	Addr string `koanf:"addr"`

	// RequestTimeoutMS bounds each backend request. Zero disables the bound.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// SessionPath and PortScanPath select the endpoint spelling of the backend.
	SessionPath  string `koanf:"session_path"`
	PortScanPath string `koanf:"port_scan_path"`

	// SessionFile is where the CLI keeps backend cookies between commands.
	SessionFile string `koanf:"session_file"`

	// VisitorCacheSize caps console visitors with a live backend session.
	VisitorCacheSize int `koanf:"visitor_cache_size"`
}

// RequestTimeout returns the request bound as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		BaseURL:          DefaultBaseURL,
		Addr:             "127.0.0.1:9090",
		RequestTimeoutMS: 30_000,
		SessionPath:      SessionPathCheckSession,
		PortScanPath:     PortScanPathDash,
		SessionFile:      defaultSessionFile(),
		VisitorCacheSize: 1024,
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".vantage-session.json"
	}
	return filepath.Join(home, ".vantage", "session.json")
}
