package service

import (
	"github.com/projectvantage/vantage/pkg/logger"
)

// Option applies a configuration option to the Console.
type Option func(*Console)

// WithLogger sets a custom logger for the console.
func WithLogger(l logger.Logger) Option {
	return func(c *Console) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserID seeds the user id shown on the dashboard when the session check
// does not return one, e.g. the email used to log in.
func WithUserID(id string) Option {
	return func(c *Console) {
		c.userID = id
	}
}
