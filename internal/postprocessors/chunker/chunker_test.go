package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, c.ChunkSize())
		}
		if c.Overlap() != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, c.Overlap())
		}
	})

	t.Run("custom values", func(t *testing.T) {
		c := New(WithChunkSize(500), WithOverlap(50))
		if c.ChunkSize() != 500 || c.Overlap() != 50 {
			t.Errorf("expected 500/50, got %d/%d", c.ChunkSize(), c.Overlap())
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(150))
		if c.Overlap() != 25 {
			t.Errorf("expected overlap reduced to 25, got %d", c.Overlap())
		}
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		if c.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", c.ChunkSize())
		}
		if c.Overlap() != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", c.Overlap())
		}
	})
}

func TestChunks_EmptyText(t *testing.T) {
	for range New().Chunks("") {
		t.Fatal("expected no chunks for empty text")
	}
	if got := New().Split(""); len(got) != 0 {
		t.Errorf("expected no chunks, got %d", len(got))
	}
}

func TestChunks_ShortText(t *testing.T) {
	got := New().Split("short text")
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("expected single unpadded chunk, got %q", got)
	}
}

func TestChunks_Windows(t *testing.T) {
	text := strings.Repeat("a", 800) + strings.Repeat("b", 50)

	got := New().Split(text)

	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if len(got[0]) != 800 {
		t.Errorf("expected first chunk of 800, got %d", len(got[0]))
	}
	if got[1] != text[700:] {
		t.Errorf("second chunk should start at 700 and run to the end")
	}
}

// Every window starts size-overlap after the previous one and the last one
// ends exactly at the end of the text.
func TestChunks_Coverage(t *testing.T) {
	tests := []struct {
		length, size, overlap int
	}{
		{1, 800, 100},
		{750, 800, 100},
		{800, 800, 100},
		{850, 800, 100},
		{2400, 800, 100},
		{1000, 100, 0},
		{999, 10, 9},
		{37, 5, 2},
	}

	for _, tt := range tests {
		text := makeText(tt.length)
		c := New(WithChunkSize(tt.size), WithOverlap(tt.overlap))
		step := tt.size - tt.overlap

		i := 0
		lastEnd := 0
		for chunk := range c.Chunks(text) {
			start := i * step
			end := min(start+tt.size, tt.length)
			if chunk != text[start:end] {
				t.Fatalf("len=%d size=%d overlap=%d: chunk %d mismatch", tt.length, tt.size, tt.overlap, i)
			}
			lastEnd = end
			i++
		}
		if lastEnd != tt.length {
			t.Errorf("len=%d size=%d overlap=%d: last chunk ends at %d", tt.length, tt.size, tt.overlap, lastEnd)
		}
		if expected := (tt.length + step - 1) / step; i != expected {
			t.Errorf("len=%d size=%d overlap=%d: expected %d chunks, got %d", tt.length, tt.size, tt.overlap, expected, i)
		}
	}
}

func TestChunks_CountsCharactersNotBytes(t *testing.T) {
	text := strings.Repeat("é", 15)

	got := New(WithChunkSize(10), WithOverlap(0)).Split(text)

	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if utf8.RuneCountInString(got[0]) != 10 || utf8.RuneCountInString(got[1]) != 5 {
		t.Errorf("unexpected rune counts %d/%d", utf8.RuneCountInString(got[0]), utf8.RuneCountInString(got[1]))
	}
	for _, chunk := range got {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk split a multi-byte character: %q", chunk)
		}
	}
}

func TestChunks_Restartable(t *testing.T) {
	seq := New(WithChunkSize(10), WithOverlap(2)).Chunks(makeText(55))

	var first, second []string
	for chunk := range seq {
		first = append(first, chunk)
	}
	for chunk := range seq {
		second = append(second, chunk)
	}

	if strings.Join(first, "|") != strings.Join(second, "|") {
		t.Error("ranging twice should produce the same chunks")
	}
}

func TestChunks_EarlyBreak(t *testing.T) {
	n := 0
	for range New(WithChunkSize(10), WithOverlap(0)).Chunks(makeText(1000)) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("expected to stop after 3 chunks, got %d", n)
	}
}

func makeText(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('a' + i%26))
	}
	return b.String()
}
