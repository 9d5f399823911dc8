package chunker

import (
	"strings"
	"unicode/utf8"
)

// Default quality thresholds.
const (
	DefaultMinChars = 250
	DefaultMinWords = 40
)

// Filter rejects low-information chunks such as OCR debris or leftover markup.
// The zero value accepts every non-empty chunk.
type Filter struct {
	// MinChars is the minimum length in characters.
	MinChars int

	// MinWords is the minimum number of whitespace-delimited words.
	MinWords int
}

// DefaultFilter returns the filter used for indexing.
func DefaultFilter() Filter {
	return Filter{MinChars: DefaultMinChars, MinWords: DefaultMinWords}
}

// Valid reports whether chunk is long and wordy enough to keep.
func (f Filter) Valid(chunk string) bool {
	if strings.TrimSpace(chunk) == "" {
		return false
	}
	if utf8.RuneCountInString(chunk) < f.MinChars {
		return false
	}
	if f.MinWords > 0 && len(strings.Fields(chunk)) < f.MinWords {
		return false
	}
	return true
}
