package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driving"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService resolves build requests into sources and runs the builder.
type IndexService struct {
	resolver driven.SourceResolver
	builder  *IndexBuilder
	store    driven.ArtifactStore
}

// NewIndexService creates an index service.
func NewIndexService(resolver driven.SourceResolver, builder *IndexBuilder, store driven.ArtifactStore) *IndexService {
	return &IndexService{
		resolver: resolver,
		builder:  builder,
		store:    store,
	}
}

// Index builds a new artifact from the documents req names, replacing the current one.
func (s *IndexService) Index(ctx context.Context, req domain.BuildRequest) (*domain.BuildReport, error) {
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: no directories, files or URLs to index", domain.ErrInvalidInput)
	}

	sources, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("resolve sources: %w", err)
	}
	return s.builder.Build(ctx, sources)
}

// Location returns where the artifact is written.
func (s *IndexService) Location() string {
	return s.store.Location()
}
