// Package memory provides in-memory implementations of driven ports.
// The corpus store here backs builds and serving; the config store backs tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is a slice-backed, append-only implementation of driven.CorpusStore.
type CorpusStore struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
}

// NewCorpusStore creates a corpus store holding the given chunks in order.
func NewCorpusStore(chunks ...domain.Chunk) *CorpusStore {
	return &CorpusStore{chunks: append([]domain.Chunk(nil), chunks...)}
}

// Append adds a chunk and returns its id.
func (s *CorpusStore) Append(_ context.Context, chunk domain.Chunk) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunk)
	return len(s.chunks) - 1, nil
}

// Get returns the chunk at id.
func (s *CorpusStore) Get(_ context.Context, id int) (domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 0 || id >= len(s.chunks) {
		return domain.Chunk{}, fmt.Errorf("chunk %d of %d: %w", id, len(s.chunks), domain.ErrNotFound)
	}
	return s.chunks[id], nil
}

// Len returns the number of chunks.
func (s *CorpusStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// All returns a copy of every chunk in id order.
func (s *CorpusStore) All(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Chunk(nil), s.chunks...), nil
}

// Close is a no-op.
func (s *CorpusStore) Close() error {
	return nil
}
