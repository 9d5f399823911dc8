package mcp

import (
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driving"
)

// Ports holds the services the MCP tools call.
type Ports struct {
	// Ask answers and retrieves against the served artifact.
	// The CLI hot-reloads it when the index is rebuilt.
	Ask driving.AskService
}

// Validate reports ErrMissingAskService when nothing can be served.
func (p *Ports) Validate() error {
	if p == nil || p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
