// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService maps text to vectors. The same service must embed the
// corpus at build time and the question at query time; the manifest records
// ModelName and Dimensions so a mismatch is caught when the index is loaded.
type EmbeddingService interface {
	// Embed returns the vector for one text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, in input order.
	// Any failure fails the whole batch.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the length of every returned vector.
	Dimensions() int

	// ModelName identifies the model, e.g. "text-embedding-3-small".
	ModelName() string

	// Ping makes a cheap request that proves the provider is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
