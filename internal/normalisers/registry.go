package normalisers

import (
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/normalisers/docx"
	"github.com/custodia-labs/sercha-ask/internal/normalisers/html"
	"github.com/custodia-labs/sercha-ask/internal/normalisers/markdown"
	"github.com/custodia-labs/sercha-ask/internal/normalisers/pdf"
	"github.com/custodia-labs/sercha-ask/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry selects text extractors by MIME type.
// Text types with no dedicated extractor fall back to the text/plain one.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string][]driven.TextExtractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string][]driven.TextExtractor),
	}
}

// NewDefaultRegistry creates a registry with the built-in extractors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(pdf.New())
	r.Register(docx.New())
	return r
}

// Register adds an extractor under each MIME type it supports.
func (r *Registry) Register(e driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mimeType := range e.SupportedMIMETypes() {
		list := append(r.extractors[mimeType], e)
		// Highest priority first; equal priorities keep registration order.
		slices.SortStableFunc(list, func(a, b driven.TextExtractor) int {
			return b.Priority() - a.Priority()
		})
		r.extractors[mimeType] = list
	}
}

// Get returns the highest priority extractor for the MIME type, or nil.
func (r *Registry) Get(mimeType string) driven.TextExtractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mimeType = stripParams(mimeType)
	if list := r.extractors[mimeType]; len(list) > 0 {
		return list[0]
	}
	if strings.HasPrefix(mimeType, "text/") {
		if list := r.extractors["text/plain"]; len(list) > 0 {
			return list[0]
		}
	}
	return nil
}

// MIMETypes returns every registered MIME type in sorted order.
func (r *Registry) MIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.extractors))
	for mimeType := range r.extractors {
		types = append(types, mimeType)
	}
	slices.Sort(types)
	return types
}
