package filesystem

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/normalisers"
)

func locations(sources []*FileSource) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Location())
	}
	return out
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "b")
	writeFile(t, dir, "a.md", "a")
	writeFile(t, dir, "c.pdf", "%PDF-1.4")
	writeFile(t, dir, "logo.png", "png")
	writeFile(t, dir, ".hidden.txt", "hidden")
	writeFile(t, dir, ".git/config", "git")
	writeFile(t, dir, "sub/d.html", "<p>d</p>")

	registry := normalisers.NewDefaultRegistry()

	t.Run("recursive", func(t *testing.T) {
		sources, err := Discover(dir, true, registry)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.md", "b.txt", "c.pdf", "sub/d.html"}, locations(sources))
		assert.Equal(t, filepath.Join(dir, "sub", "d.html"), sources[3].Path())
	})

	t.Run("top level only", func(t *testing.T) {
		sources, err := Discover(dir, false, registry)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.md", "b.txt", "c.pdf"}, locations(sources))
	})
}

func TestDiscover_SameNameInSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "handbook/2024/fees.md", "2024 fees")
	writeFile(t, dir, "handbook/2023/fees.md", "2023 fees")
	writeFile(t, dir, "fees.md", "current fees")

	sources, err := Discover(dir, true, normalisers.NewDefaultRegistry())
	require.NoError(t, err)

	assert.Equal(t, []string{"fees.md", "handbook/2023/fees.md", "handbook/2024/fees.md"}, locations(sources))
	assert.Equal(t, filepath.Join(dir, "handbook", "2023", "fees.md"), sources[1].Path())

	text, err := sources[2].Extract(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "2024 fees")
}

func TestDiscover_Empty(t *testing.T) {
	sources, err := Discover(t.TempDir(), true, normalisers.NewDefaultRegistry())
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestDiscover_NotADirectory(t *testing.T) {
	path := writeFile(t, t.TempDir(), "file.txt", "x")

	_, err := Discover(path, true, normalisers.NewDefaultRegistry())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDiscover_Missing(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), true, normalisers.NewDefaultRegistry())
	assert.Error(t, err)
}

// TestIsHidden tests the isHidden function with various path scenarios.
func TestIsHidden(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		// Hidden files
		{".hidden", ".hidden", true},
		{"path/to/.hidden", "path/to/.hidden", true},
		{"/root/.config/file.txt", "/root/.config/file.txt", true},

		// Hidden directories in path
		{"dir/.git/config", "dir/.git/config", true},

		// Not hidden
		{"file.txt", "file.txt", false},
		{"path/to/file.txt", "path/to/file.txt", false},

		// Special cases - . and .. are not considered hidden
		{".", ".", false},
		{"..", "..", false},
		{"path/./file", "path/./file", false},
		{"path/../file", "path/../file", false},

		// Edge cases
		{"", "", false},
		{"/", "/", false},
		{"file.hidden", "file.hidden", false},
		{"directory.name/file", "directory.name/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}
