package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sercha-ask/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
)

// DefaultFileName is the corpus database name inside an artifact directory.
const DefaultFileName = "corpus.db"

// Store is a SQLite database holding one artifact's corpus and manifest.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the corpus database at path and applies migrations.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("corpus database path: %w", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// OpenReadOnly opens an existing corpus database without writing to it.
// No migrations run and no journal files are created, so the file may sit
// on a read-only mount. The database must already carry the full schema.
func OpenReadOnly(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("corpus database path: %w", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving database path: %w", err)
	}
	// sql.Open is lazy; a missing file would otherwise surface as a generic open error.
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	dsn := (&url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "mode=ro&immutable=1",
	}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: abs,
	}

	version, err := s.SchemaVersion(context.Background())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w: %w", abs, domain.ErrArtifactCorrupt, err)
	}
	if want := latestMigration(migrations.FS); version < want {
		db.Close()
		return nil, fmt.Errorf("%s has schema version %d, want %d: %w", abs, version, want, domain.ErrArtifactCorrupt)
	}
	return s, nil
}

// latestMigration returns the highest version among the embedded up migrations.
func latestMigration(fsys fs.FS) int {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return 0
	}
	latest := 0
	for _, entry := range entries {
		var version int
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		if _, err := fmt.Sscanf(entry.Name(), "%d_", &version); err == nil && version > latest {
			latest = version
		}
	}
	return latest
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CorpusStore returns a CorpusStore interface backed by this store.
// Closing it closes the store.
func (s *Store) CorpusStore() driven.CorpusStore {
	return &corpusStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_corpus.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

// AppendAll appends chunks in order within a single transaction.
// The first chunk receives id Len(), the next Len()+1, and so on.
func (s *Store) AppendAll(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var next int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&next); err != nil {
		return fmt.Errorf("counting chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO chunks (id, text, source) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, next+i, chunk.Text, chunk.Source); err != nil {
			return fmt.Errorf("saving chunk %d: %w", next+i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SaveManifest stores the manifest, replacing any previous one.
func (s *Store) SaveManifest(ctx context.Context, m domain.Manifest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO manifest (id, build_id, created_at, embedding_model, dimensions,
			chunk_count, document_count, skipped_documents,
			chunk_size, chunk_overlap, min_chars, min_words)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			build_id = excluded.build_id,
			created_at = excluded.created_at,
			embedding_model = excluded.embedding_model,
			dimensions = excluded.dimensions,
			chunk_count = excluded.chunk_count,
			document_count = excluded.document_count,
			skipped_documents = excluded.skipped_documents,
			chunk_size = excluded.chunk_size,
			chunk_overlap = excluded.chunk_overlap,
			min_chars = excluded.min_chars,
			min_words = excluded.min_words
	`, m.BuildID, m.CreatedAt.UTC().Format(time.RFC3339Nano), m.EmbeddingModel, m.Dimensions,
		m.ChunkCount, m.DocumentCount, m.SkippedDocuments,
		m.ChunkSize, m.ChunkOverlap, m.MinChars, m.MinWords)
	if err != nil {
		return fmt.Errorf("saving manifest: %w", err)
	}
	return nil
}

// LoadManifest returns the stored manifest, or domain.ErrNotFound.
func (s *Store) LoadManifest(ctx context.Context) (*domain.Manifest, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT build_id, created_at, embedding_model, dimensions,
			chunk_count, document_count, skipped_documents,
			chunk_size, chunk_overlap, min_chars, min_words
		FROM manifest WHERE id = 1
	`)

	var (
		m         domain.Manifest
		createdAt string
	)
	err := row.Scan(&m.BuildID, &createdAt, &m.EmbeddingModel, &m.Dimensions,
		&m.ChunkCount, &m.DocumentCount, &m.SkippedDocuments,
		&m.ChunkSize, &m.ChunkOverlap, &m.MinChars, &m.MinWords)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("manifest: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("loading manifest: %w", err)
	}

	m.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest timestamp: %w", err)
	}
	return &m, nil
}

// ==================== Corpus Store ====================

// corpusStore implements driven.CorpusStore.
type corpusStore struct {
	store *Store
}

var _ driven.CorpusStore = (*corpusStore)(nil)

// Append adds a chunk at the end of the corpus and returns its id.
func (c *corpusStore) Append(ctx context.Context, chunk domain.Chunk) (int, error) {
	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var id int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&id); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO chunks (id, text, source) VALUES (?, ?, ?)",
		id, chunk.Text, chunk.Source); err != nil {
		return 0, fmt.Errorf("saving chunk: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

// Get returns the chunk at id.
func (c *corpusStore) Get(ctx context.Context, id int) (domain.Chunk, error) {
	var chunk domain.Chunk
	err := c.store.db.QueryRowContext(ctx, "SELECT text, source FROM chunks WHERE id = ?", id).
		Scan(&chunk.Text, &chunk.Source)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Chunk{}, fmt.Errorf("chunk %d: %w", id, domain.ErrNotFound)
		}
		return domain.Chunk{}, fmt.Errorf("getting chunk: %w", err)
	}
	return chunk, nil
}

// Len returns the number of chunks.
func (c *corpusStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// All returns every chunk in id order.
func (c *corpusStore) All(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := c.store.db.QueryContext(ctx, "SELECT id, text, source FROM chunks ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var (
			id    int
			chunk domain.Chunk
		)
		if err := rows.Scan(&id, &chunk.Text, &chunk.Source); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		// Gaps would shift every later id off its vector row.
		if id != len(chunks) {
			return nil, fmt.Errorf("chunk id %d at position %d: %w", id, len(chunks), domain.ErrArtifactCorrupt)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// Close closes the underlying store.
func (c *corpusStore) Close() error {
	return c.store.Close()
}
