package driven

import (
	"encoding"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// VectorIndex stores chunk vectors and answers nearest-neighbour queries.
// Row i always corresponds to corpus entry i.
type VectorIndex interface {
	// Add appends vectors as new rows, in order.
	// The first vector fixes the index dimension.
	Add(vectors ...[]float32) error

	// Search returns up to k rows nearest to query by squared Euclidean distance,
	// ascending, ties broken by lowest row. k is clamped to Len; an empty index
	// yields an empty result rather than an error.
	Search(query []float32, k int) ([]domain.Hit, error)

	// Len returns the number of rows.
	Len() int

	// Dimensions returns the vector size, or zero when empty.
	Dimensions() int

	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}
