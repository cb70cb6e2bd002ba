package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalidID is returned when a record id cannot be parsed.
	ErrInvalidID = errors.New("tui: record id must be a positive integer")
)
