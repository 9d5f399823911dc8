package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrEmptyQuery", ErrEmptyQuery},
		{"ErrUnsupportedSource", ErrUnsupportedSource},
		{"ErrExtractionFailed", ErrExtractionFailed},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrArtifactNotFound", ErrArtifactNotFound},
		{"ErrArtifactCorrupt", ErrArtifactCorrupt},
		{"ErrBuildInProgress", ErrBuildInProgress},
		{"ErrEmbeddingMismatch", ErrEmbeddingMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrArtifactCorrupt_Wrapped(t *testing.T) {
	err := fmt.Errorf("load corpus: %w", ErrArtifactCorrupt)

	assert.True(t, errors.Is(err, ErrArtifactCorrupt))
	assert.False(t, errors.Is(err, ErrArtifactNotFound))
	assert.Contains(t, err.Error(), "index artifact corrupt")
}
