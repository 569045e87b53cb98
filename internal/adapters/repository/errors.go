package repository

import "errors"

// Sentinel kinds for session store errors.
var (
	ErrNotFound = errors.New("no saved session")
	ErrCorrupt  = errors.New("saved session is unreadable")
	ErrNoPath   = errors.New("session file path is empty")
)
