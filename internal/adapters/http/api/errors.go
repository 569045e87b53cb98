package api

import "errors"

// Sentinel kinds for console errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrUnknownTool = errors.New("unknown diagnostic tool")
	ErrNewConsole  = errors.New("failed to create visitor console")
)
