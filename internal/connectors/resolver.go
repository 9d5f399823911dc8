package connectors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-ask/internal/connectors/filesystem"
	"github.com/custodia-labs/sercha-ask/internal/connectors/web"
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/logger"
)

// Ensure Resolver implements the interface.
var _ driven.SourceResolver = (*Resolver)(nil)

// Resolver builds document sources from a build request.
// Order is directories then files, then crawled pages, then explicit URLs.
type Resolver struct {
	registry driven.ExtractorRegistry
	client   *web.Client
}

// NewResolver creates a resolver. client serves both URL sources and crawls.
func NewResolver(registry driven.ExtractorRegistry, client *web.Client) *Resolver {
	return &Resolver{
		registry: registry,
		client:   client,
	}
}

// Resolve expands req into sources.
func (r *Resolver) Resolve(ctx context.Context, req domain.BuildRequest) ([]driven.DocumentSource, error) {
	var sources []driven.DocumentSource

	for _, dir := range req.Dirs {
		found, err := filesystem.Discover(dir, req.Recursive, r.registry)
		if err != nil {
			return nil, err
		}
		logger.Debug("discovered %d files in %s", len(found), dir)
		for _, s := range found {
			sources = append(sources, s)
		}
	}

	for _, file := range req.Files {
		sources = append(sources, filesystem.NewFileSource(file, r.registry))
	}

	if req.CrawlBase != "" {
		pages, err := web.NewCrawler(r.client, req.MaxPages).Crawl(ctx, req.CrawlBase)
		if err != nil {
			return nil, fmt.Errorf("crawl %s: %w", req.CrawlBase, err)
		}
		for _, p := range pages {
			sources = append(sources, p)
		}
	}

	for _, u := range req.URLs {
		sources = append(sources, web.NewURLSource(u, r.client))
	}

	return sources, nil
}
