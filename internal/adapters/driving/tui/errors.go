// Package tui provides an interactive terminal chat over the indexed corpus.
package tui

import "errors"

// Error definitions for the TUI.
var (
	// ErrMissingAskService indicates the ask service was not provided.
	ErrMissingAskService = errors.New("tui: ask service is required")

	// ErrInvalidPorts indicates the ports configuration is nil.
	ErrInvalidPorts = errors.New("tui: invalid ports configuration")
)
