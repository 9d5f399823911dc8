package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

func TestIndexCmd_Flags(t *testing.T) {
	for _, name := range []string{"dir", "file", "url", "crawl", "max-pages", "recursive"} {
		assert.NotNil(t, indexCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "r", indexCmd.Flags().Lookup("recursive").Shorthand)
	assert.Equal(t, "true", indexCmd.Flags().Lookup("recursive").DefValue)
}

func TestBuildRequest_SortsArguments(t *testing.T) {
	resetFlags()
	defer resetFlags()

	dir := t.TempDir()
	file := filepath.Join(dir, "fees.md")
	require.NoError(t, os.WriteFile(file, []byte("# Fees"), 0600))

	req, err := buildRequest([]string{dir, file, "https://example.edu/hostel", "http://example.edu/library"})
	require.NoError(t, err)

	assert.Equal(t, []string{dir}, req.Dirs)
	assert.Equal(t, []string{file}, req.Files)
	assert.Equal(t, []string{"https://example.edu/hostel", "http://example.edu/library"}, req.URLs)
	assert.True(t, req.Recursive)
}

func TestBuildRequest_MergesFlags(t *testing.T) {
	resetFlags()
	defer resetFlags()

	indexFiles = []string{"a.pdf"}
	indexCrawl = "https://example.edu"
	indexMaxPages = 10
	indexRecursive = false

	req, err := buildRequest(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pdf"}, req.Files)
	assert.Equal(t, "https://example.edu", req.CrawlBase)
	assert.Equal(t, 10, req.MaxPages)
	assert.False(t, req.Recursive)
}

func TestBuildRequest_MissingPath(t *testing.T) {
	resetFlags()
	defer resetFlags()

	_, err := buildRequest([]string{filepath.Join(t.TempDir(), "missing.pdf")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot index")
}

func TestIndexCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	resetFlags()
	defer resetFlags()

	dir := t.TempDir()
	out, err := execute(t, "index", dir)
	require.NoError(t, err)

	assert.Equal(t, 1, testIndex.calls)
	assert.Equal(t, []string{dir}, testIndex.got.Dirs)

	assert.Contains(t, out, "Building index in /tmp/sercha-ask/index")
	assert.Contains(t, out, "Indexed 2 chunks from 2 documents in 1.5s")
	assert.Contains(t, out, "Model: hashing-bow (1024 dimensions)")
	assert.Contains(t, out, "Rejected: 3 chunks")
	assert.Contains(t, out, "broken.pdf: extraction failed: no text")
	assert.Contains(t, out, "[1] B")
	assert.Contains(t, out, "Hostel fee is 20000 rupees per semester.")
}

func TestIndexCmd_NothingToIndex(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	resetFlags()
	defer resetFlags()

	_, err := execute(t, "index")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to index")
	assert.Zero(t, testIndex.calls)
}

func TestIndexCmd_BuildInProgress(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	resetFlags()
	defer resetFlags()

	testIndex.err = domain.ErrBuildInProgress

	_, err := execute(t, "index", "https://example.edu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another build is running")
}

func TestIndexCmd_Failure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	resetFlags()
	defer resetFlags()

	testIndex.err = domain.ErrEmbeddingUnavailable

	_, err := execute(t, "index", "https://example.edu")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIndexCmd_NotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	resetFlags()
	defer resetFlags()

	indexService = nil

	_, err := execute(t, "index", "https://example.edu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index service not configured")
}

func TestPrintReport_NoSkipsOrSamples(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	report := &domain.BuildReport{
		Manifest:  domain.Manifest{BuildID: "b", ChunkCount: 0},
		Documents: 0,
		Duration:  20 * time.Millisecond,
	}

	out := captureOutput(t, func() { printReport(indexCmd, report) })
	assert.Contains(t, out, "Indexed 0 chunks from 0 documents")
	assert.NotContains(t, out, "Skipped")
	assert.NotContains(t, out, "Sample chunks")
	assert.NotContains(t, out, "Rejected")
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		n        int
		expected string
	}{
		{name: "short text unchanged", text: "fees", n: 10, expected: "fees"},
		{name: "whitespace collapsed", text: "hostel\n\n  fee", n: 20, expected: "hostel fee"},
		{name: "long text cut", text: "abcdefghij", n: 4, expected: "abcd..."},
		{name: "runes counted", text: "ééééé", n: 2, expected: "éé..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, preview(tc.text, tc.n))
		})
	}
}
