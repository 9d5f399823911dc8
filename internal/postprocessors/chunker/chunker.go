// Package chunker provides fixed-size overlapping text windows and the
// quality filter that decides which windows are worth indexing.
package chunker

import (
	"iter"
	"unicode/utf8"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 800

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// Chunker splits text into windows of a fixed number of characters.
// Consecutive windows share overlap characters.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave the window advancing
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the window size in characters.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the number of characters shared by consecutive windows.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunks returns the windows of text in reading order.
// The sequence is lazy and may be ranged over any number of times.
// Empty text yields nothing; the last window may be shorter than the chunk size.
func (c *Chunker) Chunks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if text == "" {
			return
		}

		// offsets[i] is the byte offset of rune i; the final entry is len(text)
		offsets := runeOffsets(text)
		runeCount := len(offsets) - 1
		step := c.chunkSize - c.overlap

		for start := 0; start < runeCount; start += step {
			end := min(start+c.chunkSize, runeCount)
			if !yield(text[offsets[start]:offsets[end]]) {
				return
			}
		}
	}
}

// Split returns all windows of text.
func (c *Chunker) Split(text string) []string {
	var out []string
	for chunk := range c.Chunks(text) {
		out = append(out, chunk)
	}
	return out
}

func runeOffsets(text string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
