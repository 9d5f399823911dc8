package driven

import (
	"context"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// CorpusStore holds the ordered chunk records of an index.
// It is append-only: existing entries are never reordered or rewritten.
type CorpusStore interface {
	// Append adds a chunk and returns its id, which equals the previous length.
	Append(ctx context.Context, chunk domain.Chunk) (int, error)

	// Get returns the chunk at id, or domain.ErrNotFound.
	Get(ctx context.Context, id int) (domain.Chunk, error)

	// Len returns the number of chunks.
	Len(ctx context.Context) (int, error)

	// All returns every chunk in id order.
	All(ctx context.Context) ([]domain.Chunk, error)

	// Close releases resources.
	Close() error
}
