package driven

import (
	"context"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// Artifact is one queryable snapshot: a vector index and the corpus aligned with it.
type Artifact struct {
	Manifest domain.Manifest
	Index    VectorIndex
	Corpus   CorpusStore
}

// ArtifactStore persists artifacts.
// Save replaces the previous artifact atomically; a failed Save leaves it untouched.
type ArtifactStore interface {
	// Save persists a complete artifact and swaps it into place.
	Save(ctx context.Context, artifact *Artifact) error

	// Load reads the current artifact and verifies that corpus and index lengths match.
	// Returns domain.ErrArtifactNotFound when nothing has been built and
	// domain.ErrArtifactCorrupt when the pair is misaligned.
	Load(ctx context.Context) (*Artifact, error)

	// Manifest reads only the manifest of the current artifact.
	Manifest(ctx context.Context) (*domain.Manifest, error)

	// Lock acquires the exclusive build lock.
	// Returns domain.ErrBuildInProgress when another build holds it.
	Lock(ctx context.Context) (unlock func() error, err error)

	// Location returns where the artifact lives.
	Location() string
}

// ArtifactWatcher reports when a new artifact has been swapped in.
type ArtifactWatcher interface {
	// Watch calls onChange after each swap until ctx is cancelled.
	Watch(ctx context.Context, onChange func()) error

	// Close releases resources.
	Close() error
}
