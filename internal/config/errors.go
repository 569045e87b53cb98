package config

import "errors"

// Sentinel errors returned by Load; wrap-checked with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
	ErrUnknownPath   = errors.New("unknown endpoint path variant")
)
