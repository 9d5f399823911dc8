package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/normalisers"
)

// Ensure FileSource implements the interface.
var _ driven.DocumentSource = (*FileSource)(nil)

// FileSource is a local file to be indexed.
type FileSource struct {
	path     string
	name     string
	registry driven.ExtractorRegistry
}

// NewFileSource creates a source for the file at path, named by its base name.
func NewFileSource(path string, registry driven.ExtractorRegistry) *FileSource {
	return &FileSource{
		path:     path,
		name:     filepath.Base(path),
		registry: registry,
	}
}

// newNamedSource creates a source whose location is name rather than the base name.
func newNamedSource(path, name string, registry driven.ExtractorRegistry) *FileSource {
	return &FileSource{
		path:     path,
		name:     name,
		registry: registry,
	}
}

// Location returns the name chunks record as their source.
func (s *FileSource) Location() string {
	return s.name
}

// Kind returns the origin type.
func (s *FileSource) Kind() domain.SourceKind {
	return domain.SourceKindFile
}

// Path returns the full file path.
func (s *FileSource) Path() string {
	return s.path
}

// MIMEType returns the type detected from the file name.
func (s *FileSource) MIMEType() string {
	return normalisers.DetectMIMEType(s.path)
}

// Extract reads the file and returns its text.
func (s *FileSource) Extract(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mimeType := s.MIMEType()
	extractor := s.registry.Get(mimeType)
	if extractor == nil {
		return "", fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedSource, s.path, mimeType)
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.path, err)
	}

	return extractor.Extract(ctx, content, s.Location())
}
