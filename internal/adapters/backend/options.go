package backend

import (
	"net/http"
	"time"

	"github.com/projectvantage/vantage/pkg/logger"
)

// Default endpoint paths.
const (
	DefaultSessionPath  = "/api/check_session"
	DefaultPortScanPath = "/api/port-scan"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero leaves requests bounded only by their context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithSessionPath selects the session check endpoint spelling.
func WithSessionPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.sessionPath = path
		}
	}
}

// WithPortScanPath selects the port-scan endpoint spelling.
func WithPortScanPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.portScanPath = path
		}
	}
}

// WithTransport replaces the HTTP transport, e.g. for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.transport = rt
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
