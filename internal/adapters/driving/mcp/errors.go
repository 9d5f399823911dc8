// Package mcp provides an MCP (Model Context Protocol) server adapter for sercha-ask.
// It lets AI assistants ask questions against the indexed corpus.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")
