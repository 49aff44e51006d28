package history

import "errors"

// Sentinel errors for the history recorder, checked with errors.Is().
var (
	// ErrDisabled indicates the recorder is switched off in configuration.
	ErrDisabled = errors.New("history: disabled in configuration")

	// ErrConnectionFailed indicates the initial connection attempt failed.
	ErrConnectionFailed = errors.New("history: connection failed")
)
