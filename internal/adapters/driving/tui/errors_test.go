package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		ports *Ports
	}{
		{name: "nil ports", err: ErrInvalidPorts, ports: nil},
		{name: "no ask service", err: ErrMissingAskService, ports: &Ports{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.ports.Validate(), tc.err)
			assert.Contains(t, tc.err.Error(), "tui: ")

			_, err := NewApp(tc.ports)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}
