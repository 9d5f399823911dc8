// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Build-time Interfaces
//
//   - SourceResolver: Expands a build request into document sources
//   - DocumentSource: Yields the cleaned text of one document (file, URL, crawled page)
//   - TextExtractor: Turns raw bytes of a given MIME type into plain text
//   - EmbeddingService: Maps chunk texts to fixed-dimension vectors
//   - VectorIndex: Exact nearest-neighbour search over chunk vectors
//   - CorpusStore: Append-only chunk records aligned with index rows
//   - ArtifactStore: Persists and loads the (index, corpus) pair atomically
//
// # Query-time Interfaces
//
//   - EmbeddingService: Embeds the question with the build's model
//   - LLMService: Generates the answer from a bounded prompt
//   - ArtifactWatcher: Signals that a rebuilt artifact was swapped in (optional)
//
// # Support Interfaces
//
//   - ConfigStore: Application configuration
//   - AIConfigValidator: Connectivity checks for AI providers
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
