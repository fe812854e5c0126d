package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrValidation signals the collected answers failed submit-time
	// validation after the interactive walk finished.
	ErrValidation = errors.New("tui: validation failed")
)
