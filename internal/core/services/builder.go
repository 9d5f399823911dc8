package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/logger"
)

// sampleCount is how many corpus entries a build report previews.
const sampleCount = 5

// BuilderConfig holds the collaborators and settings an IndexBuilder needs.
type BuilderConfig struct {
	// Store persists the finished artifact.
	Store driven.ArtifactStore

	// Embedder maps chunk texts to vectors.
	Embedder driven.EmbeddingService

	// Splitter chunks and filters document text.
	Splitter driven.TextSplitter

	// NewIndex returns an empty vector index for each build.
	NewIndex func() driven.VectorIndex

	// NewCorpus returns an empty corpus store for each build.
	NewCorpus func() driven.CorpusStore

	// Chunking records the splitter's parameters in the manifest.
	Chunking domain.ChunkingSettings

	// BatchSize is the number of texts per embedding request (default: 64).
	BatchSize int
}

// IndexBuilder turns document sources into a persisted index artifact.
// Builds never overlap: an in-process mutex and the store's lock file both guard them.
type IndexBuilder struct {
	cfg BuilderConfig
	mu  sync.Mutex
}

// NewIndexBuilder creates a builder.
func NewIndexBuilder(cfg BuilderConfig) *IndexBuilder {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = domain.DefaultBatchSize
	}
	return &IndexBuilder{cfg: cfg}
}

// Build extracts, chunks and embeds every source, then saves the artifact.
// Documents that fail extraction are skipped and reported. Embedding or
// storage failures abort the build before the previous artifact is replaced.
func (b *IndexBuilder) Build(ctx context.Context, sources []driven.DocumentSource) (*domain.BuildReport, error) {
	if !b.mu.TryLock() {
		return nil, domain.ErrBuildInProgress
	}
	defer b.mu.Unlock()

	unlock, err := b.cfg.Store.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(); err != nil {
			logger.Warn("release build lock: %v", err)
		}
	}()

	logger.Section("Index Build")
	started := time.Now()

	report := &domain.BuildReport{}
	corpus := b.cfg.NewCorpus()
	texts, err := b.collect(ctx, sources, corpus, report)
	if err != nil {
		return nil, err
	}
	logger.Info("Collected %d chunks from %d documents (%d skipped, %d chunks rejected)",
		len(texts), report.Documents, len(report.Skipped), report.Rejected)

	vectors, err := b.embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	index := b.cfg.NewIndex()
	if err := index.Add(vectors...); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	manifest := domain.Manifest{
		BuildID:          uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		EmbeddingModel:   b.cfg.Embedder.ModelName(),
		Dimensions:       index.Dimensions(),
		ChunkCount:       index.Len(),
		DocumentCount:    report.Documents,
		SkippedDocuments: len(report.Skipped),
		ChunkSize:        b.cfg.Chunking.Size,
		ChunkOverlap:     b.cfg.Chunking.Overlap,
		MinChars:         b.cfg.Chunking.MinChars,
		MinWords:         b.cfg.Chunking.MinWords,
	}

	artifact := &driven.Artifact{Manifest: manifest, Index: index, Corpus: corpus}
	if err := b.cfg.Store.Save(ctx, artifact); err != nil {
		return nil, fmt.Errorf("save artifact: %w", err)
	}

	samples, err := corpus.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}
	if len(samples) > sampleCount {
		samples = samples[:sampleCount]
	}

	report.Manifest = manifest
	report.Samples = samples
	report.Duration = time.Since(started)

	logger.Info("Saved artifact %s to %s in %s", manifest.BuildID, b.cfg.Store.Location(), report.Duration)
	return report, nil
}

// collect extracts and chunks each source in order, appending kept chunks to
// corpus. It returns the chunk texts in append order.
func (b *IndexBuilder) collect(
	ctx context.Context, sources []driven.DocumentSource, corpus driven.CorpusStore, report *domain.BuildReport,
) ([]string, error) {
	var texts []string

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		location := src.Location()
		text, err := src.Extract(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("Skipping %s: %v", location, err)
			report.Skipped = append(report.Skipped, domain.SkippedDocument{Location: location, Reason: err.Error()})
			continue
		}
		if strings.TrimSpace(text) == "" {
			logger.Warn("Skipping %s: no text extracted", location)
			report.Skipped = append(report.Skipped, domain.SkippedDocument{Location: location, Reason: "no text extracted"})
			continue
		}

		kept, rejected := b.cfg.Splitter.Split(text)
		report.Documents++
		report.Rejected += rejected

		for _, chunk := range kept {
			if _, err := corpus.Append(ctx, domain.Chunk{Text: chunk, Source: location}); err != nil {
				return nil, fmt.Errorf("append chunk from %s: %w", location, err)
			}
			texts = append(texts, chunk)
		}
		logger.Debug("%s (%s): %d chunks kept, %d rejected", location, src.Kind(), len(kept), rejected)
	}

	return texts, nil
}

// embed embeds texts in batches, preserving order.
func (b *IndexBuilder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	defer logger.Timed(fmt.Sprintf("Embedding %d chunks", len(texts)))()

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += b.cfg.BatchSize {
		end := min(start+b.cfg.BatchSize, len(texts))

		batch, err := b.cfg.Embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embed chunks %d-%d: got %d vectors for %d texts: %w",
				start, end-1, len(batch), end-start, domain.ErrEmbeddingUnavailable)
		}
		vectors = append(vectors, batch...)
		logger.Debug("Embedded %d/%d chunks", end, len(texts))
	}

	return vectors, nil
}
