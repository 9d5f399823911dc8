package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.TextExtractor = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/tab-separated-values",
		"text/yaml",
		"text/toml",
		"application/json",
		"application/xml",
		"text/xml",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Extract returns the content as text. Invalid UTF-8 sequences are dropped and
// a leading byte order mark is removed. Content with NUL bytes is treated as binary.
func (n *Normaliser) Extract(_ context.Context, content []byte, location string) (string, error) {
	if bytes.IndexByte(content, 0) >= 0 {
		return "", fmt.Errorf("%w: %s looks binary", domain.ErrExtractionFailed, location)
	}
	text := strings.ToValidUTF8(string(content), "")
	return strings.TrimPrefix(text, "\uFEFF"), nil
}
