package flat

import (
	"container/heap"
	"fmt"
	"sync"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a brute-force L2 index.
// Add must not run concurrently with Search; concurrent searches are safe.
type Index struct {
	mu   sync.RWMutex
	dim  int
	n    int
	data []float32 // row-major, n*dim
}

// New creates an empty index. The dimension is fixed by the first Add.
func New() *Index {
	return &Index{}
}

// NewWithVectors builds an index from vectors in one call.
func NewWithVectors(vectors [][]float32) (*Index, error) {
	idx := New()
	if err := idx.Add(vectors...); err != nil {
		return nil, err
	}
	return idx, nil
}

// Add appends vectors as rows in order.
func (i *Index) Add(vectors ...[]float32) error {
	if len(vectors) == 0 {
		return nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	dim := i.dim
	if dim == 0 {
		dim = len(vectors[0])
		if dim == 0 {
			return fmt.Errorf("flat: empty vector: %w", domain.ErrInvalidInput)
		}
	}
	for row, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("flat: row %d has %d dims, index has %d: %w",
				i.n+row, len(v), dim, domain.ErrDimensionMismatch)
		}
	}

	i.dim = dim
	i.data = append(i.data, flatten(vectors)...)
	i.n += len(vectors)
	return nil
}

// Search returns the k nearest rows by squared Euclidean distance.
// Results are ascending by distance with ties broken by lowest row.
func (i *Index) Search(query []float32, k int) ([]domain.Hit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.n == 0 || k <= 0 {
		return []domain.Hit{}, nil
	}
	if len(query) != i.dim {
		return nil, fmt.Errorf("flat: query has %d dims, index has %d: %w",
			len(query), i.dim, domain.ErrDimensionMismatch)
	}

	k = min(k, i.n)
	top := make(hitHeap, 0, k)
	for row := 0; row < i.n; row++ {
		d := squaredL2(query, i.data[row*i.dim:(row+1)*i.dim])
		hit := domain.Hit{ID: row, Distance: d}
		if len(top) < k {
			heap.Push(&top, hit)
			continue
		}
		// Rows are visited in ascending order, so an equal distance never displaces
		if d < top[0].Distance {
			top[0] = hit
			heap.Fix(&top, 0)
		}
	}

	hits := make([]domain.Hit, len(top))
	for n := len(top) - 1; n >= 0; n-- {
		hits[n] = heap.Pop(&top).(domain.Hit)
	}
	return hits, nil
}

// Len returns the number of rows.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.n
}

// Dimensions returns the vector size, or zero when empty.
func (i *Index) Dimensions() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dim
}

// Vector returns a copy of row id.
func (i *Index) Vector(id int) ([]float32, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if id < 0 || id >= i.n {
		return nil, fmt.Errorf("flat: row %d: %w", id, domain.ErrNotFound)
	}
	out := make([]float32, i.dim)
	copy(out, i.data[id*i.dim:(id+1)*i.dim])
	return out, nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for j := range a {
		d := a[j] - b[j]
		sum += d * d
	}
	return sum
}

func flatten(vectors [][]float32) []float32 {
	size := 0
	for _, v := range vectors {
		size += len(v)
	}
	out := make([]float32, 0, size)
	for _, v := range vectors {
		out = append(out, v...)
	}
	return out
}

// hitHeap is a max-heap on (Distance, ID) holding the current best k.
type hitHeap []domain.Hit

func (h hitHeap) Len() int { return len(h) }

func (h hitHeap) Less(a, b int) bool {
	if h[a].Distance != h[b].Distance {
		return h[a].Distance > h[b].Distance
	}
	return h[a].ID > h[b].ID
}

func (h hitHeap) Swap(a, b int) { h[a], h[b] = h[b], h[a] }

func (h *hitHeap) Push(x any) { *h = append(*h, x.(domain.Hit)) }

func (h *hitHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
