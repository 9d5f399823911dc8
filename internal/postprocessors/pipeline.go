// Package postprocessors turns extracted document text into indexable chunks.
package postprocessors

import (
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/postprocessors/chunker"
)

// Ensure Pipeline implements the interface.
var _ driven.TextSplitter = (*Pipeline)(nil)

// Pipeline windows text with a chunker and drops chunks failing the quality filter.
type Pipeline struct {
	chunker *chunker.Chunker
	filter  chunker.Filter
}

// NewPipeline creates a pipeline from a chunker and a filter.
func NewPipeline(c *chunker.Chunker, f chunker.Filter) *Pipeline {
	if c == nil {
		c = chunker.New()
	}
	return &Pipeline{chunker: c, filter: f}
}

// FromSettings builds the pipeline described by chunking settings.
// Non-positive sizes fall back to chunker defaults; negative thresholds disable that check.
func FromSettings(s domain.ChunkingSettings) *Pipeline {
	var opts []chunker.Option
	if s.Size > 0 {
		opts = append(opts, chunker.WithChunkSize(s.Size))
	}
	if s.Overlap >= 0 {
		opts = append(opts, chunker.WithOverlap(s.Overlap))
	}

	return NewPipeline(chunker.New(opts...), chunker.Filter{
		MinChars: max(s.MinChars, 0),
		MinWords: max(s.MinWords, 0),
	})
}

// Split returns the retained chunks of text and how many were rejected.
func (p *Pipeline) Split(text string) ([]string, int) {
	var kept []string
	rejected := 0
	for chunk := range p.chunker.Chunks(text) {
		if p.filter.Valid(chunk) {
			kept = append(kept, chunk)
		} else {
			rejected++
		}
	}
	return kept, rejected
}

// Settings reports the effective chunking parameters.
func (p *Pipeline) Settings() domain.ChunkingSettings {
	return domain.ChunkingSettings{
		Size:     p.chunker.ChunkSize(),
		Overlap:  p.chunker.Overlap(),
		MinChars: p.filter.MinChars,
		MinWords: p.filter.MinWords,
	}
}
