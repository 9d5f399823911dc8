package domain

import "time"

// Manifest describes one persisted index artifact.
type Manifest struct {
	// BuildID uniquely identifies the build that produced the artifact.
	BuildID string

	// CreatedAt is when the build finished.
	CreatedAt time.Time

	// EmbeddingModel is the model that produced the vectors.
	// Queries must be embedded with the same model.
	EmbeddingModel string

	// Dimensions is the vector size; zero for an empty index.
	Dimensions int

	// ChunkCount is the number of corpus entries and index rows.
	ChunkCount int

	// DocumentCount is the number of documents that contributed text.
	DocumentCount int

	// SkippedDocuments is the number of documents whose extraction failed.
	SkippedDocuments int

	// Chunking parameters used for the build.
	ChunkSize    int
	ChunkOverlap int
	MinChars     int
	MinWords     int
}

// SkippedDocument records a document left out of a build.
type SkippedDocument struct {
	// Location identifies the document.
	Location string

	// Reason is the extraction error message.
	Reason string
}

// BuildReport summarises a completed build.
type BuildReport struct {
	// Manifest is the metadata persisted with the artifact.
	Manifest Manifest

	// Documents is the number of documents that yielded text.
	Documents int

	// Skipped lists documents whose extraction failed.
	Skipped []SkippedDocument

	// Rejected is the number of chunks dropped by the quality filter.
	Rejected int

	// Samples holds the first few corpus entries for preview.
	Samples []Chunk

	// Duration is the wall time of the build.
	Duration time.Duration
}
