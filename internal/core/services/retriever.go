package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/logger"
)

// Retriever finds the chunks nearest to a question.
// It is safe for concurrent use once the index and corpus are loaded.
type Retriever struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	corpus   driven.CorpusStore
}

// NewRetriever creates a retriever over one index and its aligned corpus.
func NewRetriever(embedder driven.EmbeddingService, index driven.VectorIndex, corpus driven.CorpusStore) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		corpus:   corpus,
	}
}

// Retrieve returns up to opts.KReturn chunks nearest to query, nearest first.
// Chunks from the same source are not merged. An empty index yields an empty
// result without embedding the query.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) (*domain.Retrieval, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	opts = opts.WithDefaults()
	result := &domain.Retrieval{Query: query, Chunks: []domain.RetrievedChunk{}}

	total := r.index.Len()
	if total == 0 {
		logger.Debug("Index is empty, nothing to retrieve")
		return result, nil
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.index.Search(vector, min(opts.KSearch, total))
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	logger.Debug("Search returned %d of %d candidates", len(hits), opts.KSearch)

	if len(hits) > opts.KReturn {
		hits = hits[:opts.KReturn]
	}

	for _, hit := range hits {
		chunk, err := r.corpus.Get(ctx, hit.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("resolve hit %d: %w", hit.ID, domain.ErrArtifactCorrupt)
			}
			return nil, fmt.Errorf("resolve hit %d: %w", hit.ID, err)
		}
		result.Chunks = append(result.Chunks, domain.RetrievedChunk{
			ID:       hit.ID,
			Text:     chunk.Text,
			Source:   chunk.Source,
			Distance: hit.Distance,
		})
	}

	return result, nil
}
