package driven

import (
	"context"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// DocumentSource is one document to be indexed, regardless of origin.
type DocumentSource interface {
	// Location identifies the document; it is recorded as the chunk source.
	Location() string

	// Kind returns the origin type.
	Kind() domain.SourceKind

	// Extract returns the document's cleaned plain text.
	// Errors are per-document and never abort a build.
	Extract(ctx context.Context) (string, error)
}

// TextExtractor turns raw document bytes into plain text.
// Each extractor handles specific MIME types (e.g., PDF, HTML).
type TextExtractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors should return 50-89.
	// Fallback extractors should return 1-9.
	Priority() int

	// Extract converts content to plain text. location is used for
	// resolving relative references and in error messages.
	Extract(ctx context.Context, content []byte, location string) (string, error)
}

// ExtractorRegistry selects the extractor for a MIME type.
type ExtractorRegistry interface {
	// Register adds an extractor.
	Register(e TextExtractor)

	// Get returns the highest priority extractor for the MIME type, or nil.
	Get(mimeType string) TextExtractor
}

// SourceResolver turns a build request into document sources, in build order.
type SourceResolver interface {
	// Resolve expands directories, crawls sites and returns every source.
	// Failures of individual pages are not errors; a missing directory is.
	Resolve(ctx context.Context, req domain.BuildRequest) ([]DocumentSource, error)
}
