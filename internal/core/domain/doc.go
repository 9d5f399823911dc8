// Package domain defines the core entities of the question-answering engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A retained text fragment and the source it came from
//   - Hit: A nearest-neighbour match against the vector index
//   - Retrieval: The ranked chunks handed to answer synthesis
//   - Answer: Generated text plus the set of contributing sources
//   - Manifest: Metadata describing one persisted index artifact
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
