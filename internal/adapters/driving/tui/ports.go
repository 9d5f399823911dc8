package tui

import (
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driving"
)

// Ports holds the driving ports the TUI needs.
type Ports struct {
	// Ask answers questions against the served index.
	Ask driving.AskService

	// Options are the retrieval sizes used for every question.
	// Zero fields fall back to the service defaults.
	Options domain.RetrieveOptions
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
