package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuery indicates a question with no content.
	ErrEmptyQuery = errors.New("empty query")

	// ErrUnsupportedSource indicates a document whose format has no extractor.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrExtractionFailed indicates a document produced no usable text.
	// The builder skips such documents rather than failing.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrLLMUnavailable indicates the LLM service is not configured or did not answer.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured or failed.
	// An index cannot be built without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Artifact Errors.

	// ErrDimensionMismatch indicates a vector whose length differs from the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrArtifactNotFound indicates no index has been built yet.
	ErrArtifactNotFound = errors.New("index artifact not found")

	// ErrArtifactCorrupt indicates the persisted index and corpus disagree.
	// Serving must refuse to start rather than return misattributed chunks.
	ErrArtifactCorrupt = errors.New("index artifact corrupt")

	// ErrBuildInProgress indicates another build holds the build lock.
	ErrBuildInProgress = errors.New("index build in progress")

	// ErrEmbeddingMismatch indicates the configured embedder differs from the one
	// that built the index, so query vectors would not be comparable.
	ErrEmbeddingMismatch = errors.New("embedding model mismatch")
)
