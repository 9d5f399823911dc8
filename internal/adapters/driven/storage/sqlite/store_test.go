package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// setupTestStore creates a temporary corpus database for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), DefaultFileName))
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestNewStore_EmptyPath(t *testing.T) {
	_, err := NewStore("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewStore_RecordsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)

	store, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	require.NoError(t, store.Close())

	// Reopening must not re-run the migration.
	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	version, err = store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestCorpusStore_AppendAndGet(t *testing.T) {
	store := setupTestStore(t)
	corpus := store.CorpusStore()
	ctx := context.Background()

	id, err := corpus.Append(ctx, domain.Chunk{Text: "Admission fee is 50000", Source: "A"})
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	id, err = corpus.Append(ctx, domain.Chunk{Text: "Hostel fee is 20000", Source: "B"})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	chunk, err := corpus.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Chunk{Text: "Hostel fee is 20000", Source: "B"}, chunk)

	_, err = corpus.Get(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := corpus.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_AppendAllPreservesOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first := []domain.Chunk{
		{Text: "one", Source: "a.pdf"},
		{Text: "two", Source: "a.pdf"},
	}
	second := []domain.Chunk{
		{Text: "three", Source: "https://college.edu/"},
	}
	require.NoError(t, store.AppendAll(ctx, first))
	require.NoError(t, store.AppendAll(ctx, second))

	all, err := store.CorpusStore().All(ctx)
	require.NoError(t, err)
	assert.Equal(t, append(first, second...), all)
}

func TestStore_AppendAllEmpty(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendAll(ctx, nil))

	all, err := store.CorpusStore().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_AllDetectsGaps(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, "INSERT INTO chunks (id, text, source) VALUES (0, 'a', 'A'), (2, 'c', 'C')")
	require.NoError(t, err)

	_, err = store.CorpusStore().All(ctx)
	assert.ErrorIs(t, err, domain.ErrArtifactCorrupt)
}

func TestStore_Manifest(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.LoadManifest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	m := domain.Manifest{
		BuildID:          "build-1",
		CreatedAt:        time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
		EmbeddingModel:   "hashing-bow",
		Dimensions:       1024,
		ChunkCount:       2,
		DocumentCount:    2,
		SkippedDocuments: 1,
		ChunkSize:        800,
		ChunkOverlap:     100,
		MinChars:         250,
		MinWords:         40,
	}
	require.NoError(t, store.SaveManifest(ctx, m))

	loaded, err := store.LoadManifest(ctx)
	require.NoError(t, err)
	assert.Equal(t, m, *loaded)

	m.BuildID = "build-2"
	require.NoError(t, store.SaveManifest(ctx, m))
	loaded, err = store.LoadManifest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "build-2", loaded.BuildID)
}

func TestOpenReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.AppendAll(ctx, []domain.Chunk{{Text: "Hostel fee", Source: "fees.md"}}))
	require.NoError(t, store.SaveManifest(ctx, domain.Manifest{BuildID: "build-1", ChunkCount: 1}))
	require.NoError(t, store.Close())

	before, err := os.ReadDir(dir)
	require.NoError(t, err)

	ro, err := OpenReadOnly(path)
	require.NoError(t, err)

	manifest, err := ro.LoadManifest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "build-1", manifest.BuildID)

	chunks, err := ro.CorpusStore().All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Chunk{{Text: "Hostel fee", Source: "fees.md"}}, chunks)

	err = ro.AppendAll(ctx, []domain.Chunk{{Text: "x", Source: "y"}})
	assert.Error(t, err)
	require.NoError(t, ro.Close())

	// No journal or shared-memory files appear next to the database.
	after, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestOpenReadOnly_Missing(t *testing.T) {
	_, err := OpenReadOnly(filepath.Join(t.TempDir(), DefaultFileName))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = OpenReadOnly("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpenReadOnly_WithoutSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, nil, 0600))

	_, err := OpenReadOnly(path)
	assert.ErrorIs(t, err, domain.ErrArtifactCorrupt)
}
