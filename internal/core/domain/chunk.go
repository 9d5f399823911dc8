package domain

import "slices"

// NoAnswer is returned in place of generated text when nothing was retrieved.
const NoAnswer = "Information not available"

// Chunk is a retained fragment of a document's extracted text.
// Its identity is its position in the corpus; it is never mutated after creation.
type Chunk struct {
	// Text is the fragment content.
	Text string

	// Source identifies where the fragment came from (file name or URL).
	Source string
}

// Hit is one nearest-neighbour match returned by a vector index.
type Hit struct {
	// ID is the corpus position of the matching vector.
	ID int

	// Distance is the squared Euclidean distance to the query.
	Distance float32
}

// RetrievedChunk is a hit resolved against the corpus.
type RetrievedChunk struct {
	ID       int
	Text     string
	Source   string
	Distance float32
}

// Retrieval holds ranked chunks, nearest first.
type Retrieval struct {
	// Query is the question the chunks were retrieved for.
	Query string

	// Chunks are ordered by ascending distance.
	Chunks []RetrievedChunk
}

// IsEmpty reports whether nothing was retrieved.
func (r *Retrieval) IsEmpty() bool {
	return r == nil || len(r.Chunks) == 0
}

// Texts returns the chunk texts in rank order.
func (r *Retrieval) Texts() []string {
	if r == nil {
		return nil
	}
	texts := make([]string, len(r.Chunks))
	for i := range r.Chunks {
		texts[i] = r.Chunks[i].Text
	}
	return texts
}

// Sources returns the chunk sources in rank order, parallel to Texts.
// The same source may appear more than once.
func (r *Retrieval) Sources() []string {
	if r == nil {
		return nil
	}
	sources := make([]string, len(r.Chunks))
	for i := range r.Chunks {
		sources[i] = r.Chunks[i].Source
	}
	return sources
}

// SourceSet returns the distinct sources, sorted.
func (r *Retrieval) SourceSet() []string {
	if r.IsEmpty() {
		return []string{}
	}
	seen := make(map[string]struct{}, len(r.Chunks))
	set := make([]string, 0, len(r.Chunks))
	for i := range r.Chunks {
		src := r.Chunks[i].Source
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		set = append(set, src)
	}
	slices.Sort(set)
	return set
}

// RetrieveOptions controls how many candidates are searched and returned.
type RetrieveOptions struct {
	// KSearch is the number of nearest neighbours examined (default: 8).
	KSearch int

	// KReturn is the number of chunks returned after truncation (default: 5).
	KReturn int
}

// Default retrieval sizes.
const (
	DefaultKSearch = 8
	DefaultKReturn = 5
)

// WithDefaults fills zero or negative fields with the default sizes.
func (o RetrieveOptions) WithDefaults() RetrieveOptions {
	if o.KSearch <= 0 {
		o.KSearch = DefaultKSearch
	}
	if o.KReturn <= 0 {
		o.KReturn = DefaultKReturn
	}
	return o
}

// Answer is the synthesised reply to a question.
type Answer struct {
	// Query is the question that was asked.
	Query string

	// Text is the language model output, verbatim.
	Text string

	// Sources is the deduplicated, sorted set of sources that fed the context.
	Sources []string

	// Retrieval holds the chunks used as context.
	Retrieval *Retrieval
}

// Answered reports whether the model was consulted.
func (a *Answer) Answered() bool {
	return a != nil && len(a.Sources) > 0
}
