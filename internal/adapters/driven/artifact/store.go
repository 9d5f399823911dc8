package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/logger"
)

// Names inside the artifact directory.
const (
	IndexFileName   = "index.bin"
	CorpusFileName  = sqlite.DefaultFileName
	CurrentFileName = "CURRENT"
	BuildsDirName   = "builds"
)

// loadAttempts bounds how often Load follows the pointer after a concurrent swap.
const loadAttempts = 5

// Ensure Store implements the interface.
var _ driven.ArtifactStore = (*Store)(nil)

// Store is a filesystem-backed driven.ArtifactStore rooted at one directory.
type Store struct {
	dir string
}

// NewStore creates an artifact store for dir. The directory need not exist yet.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifact directory: %w", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving artifact directory: %w", err)
	}
	return &Store{dir: filepath.Clean(abs)}, nil
}

// Location returns the artifact directory.
func (s *Store) Location() string {
	return s.dir
}

// BuildDir returns the directory holding the files of the named build.
func (s *Store) BuildDir(name string) string {
	return filepath.Join(s.dir, BuildsDirName, name)
}

// Save writes the artifact into a build directory of its own and then points
// CURRENT at it. The files of a published build are never modified.
func (s *Store) Save(ctx context.Context, artifact *driven.Artifact) error {
	if artifact == nil || artifact.Index == nil || artifact.Corpus == nil {
		return fmt.Errorf("incomplete artifact: %w", domain.ErrInvalidInput)
	}

	chunks, err := artifact.Corpus.All(ctx)
	if err != nil {
		return fmt.Errorf("reading corpus: %w", err)
	}
	if len(chunks) != artifact.Index.Len() {
		return fmt.Errorf("corpus has %d chunks but index has %d rows: %w",
			len(chunks), artifact.Index.Len(), domain.ErrArtifactCorrupt)
	}

	builds := filepath.Join(s.dir, BuildsDirName)
	if err := os.MkdirAll(builds, 0700); err != nil {
		return fmt.Errorf("creating builds directory: %w", err)
	}

	staging := filepath.Join(builds, ".staging-"+uuid.NewString())
	if err := os.Mkdir(staging, 0700); err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer func() {
		// Already renamed away on success.
		_ = os.RemoveAll(staging)
	}()

	buildID := artifact.Manifest.BuildID
	if err := writeIndexFile(filepath.Join(staging, IndexFileName), buildID, artifact.Index); err != nil {
		return err
	}
	if err := writeCorpus(ctx, filepath.Join(staging, CorpusFileName), chunks, artifact.Manifest); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	name := s.buildName(buildID)
	if err := os.Rename(staging, s.BuildDir(name)); err != nil {
		return fmt.Errorf("publishing build %s: %w", name, err)
	}

	previous, err := s.current()
	if err != nil {
		previous = ""
	}
	if err := s.point(name); err != nil {
		_ = os.RemoveAll(s.BuildDir(name))
		return err
	}
	logger.Debug("artifact %s published as %s in %s", buildID, name, s.dir)

	s.prune(name, previous)
	return nil
}

// buildName picks the directory name for a new build: the build id when it
// is usable as a file name and unused, a fresh uuid otherwise.
func (s *Store) buildName(buildID string) string {
	if validBuildName(buildID) {
		if _, err := os.Lstat(s.BuildDir(buildID)); errors.Is(err, os.ErrNotExist) {
			return buildID
		}
	}
	return uuid.NewString()
}

// point atomically replaces CURRENT with name.
func (s *Store) point(name string) error {
	tmp, err := os.CreateTemp(s.dir, "."+CurrentFileName+"-*")
	if err != nil {
		return fmt.Errorf("creating pointer file: %w", err)
	}
	_, werr := tmp.WriteString(name + "\n")
	serr := tmp.Sync()
	cerr := tmp.Close()
	if err := errors.Join(werr, serr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing pointer file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, CurrentFileName)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("swapping pointer file: %w", err)
	}
	syncDir(s.dir)
	return nil
}

// prune removes published builds other than keep and previous. The previous
// build stays so a reader that resolved the pointer just before the swap can
// finish reading it.
func (s *Store) prune(keep, previous string) {
	builds := filepath.Join(s.dir, BuildsDirName)
	entries, err := os.ReadDir(builds)
	if err != nil {
		logger.Warn("listing builds in %s: %v", builds, err)
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if name == keep || name == previous || strings.HasPrefix(name, ".") {
			continue
		}
		if err := os.RemoveAll(filepath.Join(builds, name)); err != nil {
			logger.Warn("removing retired build %s: %v", name, err)
		}
	}
}

// current reads the name of the live build from CURRENT.
func (s *Store) current() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, CurrentFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", s.dir, domain.ErrArtifactNotFound)
		}
		return "", fmt.Errorf("reading %s: %w", CurrentFileName, err)
	}
	name := strings.TrimSpace(string(data))
	if !validBuildName(name) {
		return "", fmt.Errorf("%s names build %q: %w", CurrentFileName, name, domain.ErrArtifactCorrupt)
	}
	return name, nil
}

// resolve runs read against the live build. If read fails and the pointer
// has moved on in the meantime, it retries against the newer build.
func (s *Store) resolve(read func(name string) error) error {
	for attempt := 1; ; attempt++ {
		name, err := s.current()
		if err != nil {
			return err
		}
		err = read(name)
		if err == nil || attempt == loadAttempts {
			return err
		}
		latest, perr := s.current()
		if perr != nil || latest == name {
			return err
		}
		logger.Debug("build %s replaced by %s during read, retrying: %v", name, latest, err)
	}
}

func writeCorpus(ctx context.Context, path string, chunks []domain.Chunk, manifest domain.Manifest) error {
	db, err := sqlite.NewStore(path)
	if err != nil {
		return fmt.Errorf("creating corpus database: %w", err)
	}
	if err := db.AppendAll(ctx, chunks); err != nil {
		db.Close()
		return err
	}
	if err := db.SaveManifest(ctx, manifest); err != nil {
		db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("closing corpus database: %w", err)
	}
	return nil
}

// Load reads the live build into memory and checks its alignment.
// Both files come from the one build directory CURRENT named when the read began.
func (s *Store) Load(ctx context.Context) (*driven.Artifact, error) {
	var artifact *driven.Artifact
	err := s.resolve(func(name string) error {
		var err error
		artifact, err = s.loadBuild(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return artifact, nil
}

func (s *Store) loadBuild(ctx context.Context, name string) (*driven.Artifact, error) {
	dir := s.BuildDir(name)
	if err := checkFiles(dir); err != nil {
		return nil, err
	}

	db, err := sqlite.OpenReadOnly(filepath.Join(dir, CorpusFileName))
	if err != nil {
		return nil, fmt.Errorf("opening corpus database: %w", err)
	}
	defer db.Close()

	manifest, err := readManifest(ctx, db, dir)
	if err != nil {
		return nil, err
	}

	chunks, err := db.CorpusStore().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	buildID, index, err := readIndexFile(filepath.Join(dir, IndexFileName))
	if err != nil {
		return nil, err
	}

	if buildID != manifest.BuildID {
		return nil, fmt.Errorf("index written by build %q, manifest records %q: %w",
			buildID, manifest.BuildID, domain.ErrArtifactCorrupt)
	}
	if len(chunks) != index.Len() || manifest.ChunkCount != index.Len() {
		return nil, fmt.Errorf("corpus has %d chunks, index has %d rows, manifest records %d: %w",
			len(chunks), index.Len(), manifest.ChunkCount, domain.ErrArtifactCorrupt)
	}
	if index.Len() > 0 && index.Dimensions() != manifest.Dimensions {
		return nil, fmt.Errorf("index dimension %d, manifest records %d: %w",
			index.Dimensions(), manifest.Dimensions, domain.ErrArtifactCorrupt)
	}

	return &driven.Artifact{
		Manifest: *manifest,
		Index:    index,
		Corpus:   memory.NewCorpusStore(chunks...),
	}, nil
}

// Manifest reads only the manifest of the live build.
func (s *Store) Manifest(ctx context.Context) (*domain.Manifest, error) {
	var manifest *domain.Manifest
	err := s.resolve(func(name string) error {
		dir := s.BuildDir(name)
		if err := checkFiles(dir); err != nil {
			return err
		}
		db, err := sqlite.OpenReadOnly(filepath.Join(dir, CorpusFileName))
		if err != nil {
			return fmt.Errorf("opening corpus database: %w", err)
		}
		defer db.Close()

		manifest, err = readManifest(ctx, db, dir)
		return err
	})
	if err != nil {
		return nil, err
	}
	return manifest, nil
}

func readManifest(ctx context.Context, db *sqlite.Store, dir string) (*domain.Manifest, error) {
	manifest, err := db.LoadManifest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%s has no manifest: %w", dir, domain.ErrArtifactCorrupt)
		}
		return nil, err
	}
	return manifest, nil
}

// checkFiles reports a build directory missing either file as corrupt.
func checkFiles(dir string) error {
	for _, name := range []string{IndexFileName, CorpusFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("%s missing %s: %w: %w", dir, name, domain.ErrArtifactCorrupt, err)
		}
	}
	return nil
}

// validBuildName reports whether name can be used as a build directory.
func validBuildName(name string) bool {
	if name == "" || len(name) > maxBuildIDLen || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\:`) && filepath.Base(name) == name
}

// syncDir flushes a directory entry change where the platform allows it.
func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	defer f.Close()
	_ = f.Sync()
}
