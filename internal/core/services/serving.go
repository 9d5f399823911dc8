package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-ask/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// ServingConfig holds query-time settings.
type ServingConfig struct {
	// Retrieve supplies defaults for requests that leave sizes at zero.
	Retrieve domain.RetrieveOptions

	// Synthesis controls the prompt and generation.
	Synthesis SynthesisOptions
}

// ServingContext is one loaded artifact with the retriever and synthesizer
// built over it. It is read-only and safe for concurrent queries.
type ServingContext struct {
	artifact    *driven.Artifact
	retriever   *Retriever
	synthesizer *AnswerSynthesizer
	retrieve    domain.RetrieveOptions
	loadedAt    time.Time
}

// LoadServingContext loads the current artifact and checks that it can be
// queried with embedder: the corpus must align with the index, and a
// non-empty index must have been built with the same model and dimension.
// llm may be nil for retrieval-only use.
func LoadServingContext(
	ctx context.Context,
	store driven.ArtifactStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	cfg ServingConfig,
) (*ServingContext, error) {
	if embedder == nil {
		return nil, fmt.Errorf("load serving context: %w", domain.ErrEmbeddingUnavailable)
	}

	artifact, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load artifact from %s: %w", store.Location(), err)
	}

	if err := checkArtifact(ctx, artifact, embedder); err != nil {
		if closeErr := artifact.Corpus.Close(); closeErr != nil {
			logger.Warn("close corpus: %v", closeErr)
		}
		return nil, err
	}

	logger.Debug("Loaded artifact %s: %d chunks, model %s",
		artifact.Manifest.BuildID, artifact.Index.Len(), artifact.Manifest.EmbeddingModel)

	return &ServingContext{
		artifact:    artifact,
		retriever:   NewRetriever(embedder, artifact.Index, artifact.Corpus),
		synthesizer: NewAnswerSynthesizer(llm, cfg.Synthesis),
		retrieve:    cfg.Retrieve.WithDefaults(),
		loadedAt:    time.Now(),
	}, nil
}

// checkArtifact verifies alignment and embedder compatibility.
func checkArtifact(ctx context.Context, artifact *driven.Artifact, embedder driven.EmbeddingService) error {
	n, err := artifact.Corpus.Len(ctx)
	if err != nil {
		return fmt.Errorf("count corpus: %w", err)
	}
	if n != artifact.Index.Len() {
		return fmt.Errorf("corpus has %d chunks, index has %d vectors: %w",
			n, artifact.Index.Len(), domain.ErrArtifactCorrupt)
	}

	// An empty index accepts any embedder; nothing will be searched.
	if n == 0 {
		return nil
	}

	if model := embedder.ModelName(); model != artifact.Manifest.EmbeddingModel {
		return fmt.Errorf("index built with %q, configured embedder is %q (rebuild the index or change embedding.model): %w",
			artifact.Manifest.EmbeddingModel, model, domain.ErrEmbeddingMismatch)
	}
	if dims := embedder.Dimensions(); dims > 0 && dims != artifact.Index.Dimensions() {
		return fmt.Errorf("index has %d dimensions, embedder produces %d: %w",
			artifact.Index.Dimensions(), dims, domain.ErrEmbeddingMismatch)
	}
	return nil
}

// Manifest returns the loaded artifact's manifest.
func (s *ServingContext) Manifest() domain.Manifest {
	return s.artifact.Manifest
}

// LoadedAt returns when the artifact was loaded.
func (s *ServingContext) LoadedAt() time.Time {
	return s.loadedAt
}

// Retrieve returns the chunks nearest to query.
func (s *ServingContext) Retrieve(ctx context.Context, query string, opts domain.RetrieveOptions) (*domain.Retrieval, error) {
	return s.retriever.Retrieve(ctx, query, s.options(opts))
}

// Ask retrieves context for query and synthesises an answer.
func (s *ServingContext) Ask(ctx context.Context, query string, opts domain.RetrieveOptions) (*domain.Answer, error) {
	retrieval, err := s.Retrieve(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	return s.synthesizer.Synthesize(ctx, retrieval.Query, retrieval)
}

// Close releases the corpus.
func (s *ServingContext) Close() error {
	return s.artifact.Corpus.Close()
}

// options fills zero request sizes from the configured defaults.
func (s *ServingContext) options(opts domain.RetrieveOptions) domain.RetrieveOptions {
	if opts.KSearch <= 0 {
		opts.KSearch = s.retrieve.KSearch
	}
	if opts.KReturn <= 0 {
		opts.KReturn = s.retrieve.KReturn
	}
	return opts
}

// AskService answers questions against the current artifact.
// The artifact is loaded on first use and can be swapped with Reload while
// queries are in flight; each query runs against one consistent snapshot.
type AskService struct {
	store    driven.ArtifactStore
	embedder driven.EmbeddingService
	llm      driven.LLMService
	cfg      ServingConfig

	current  atomic.Pointer[ServingContext]
	reloadMu sync.Mutex
}

// NewAskService creates an ask service. llm may be nil for retrieval-only use.
func NewAskService(
	store driven.ArtifactStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	cfg ServingConfig,
) *AskService {
	return &AskService{
		store:    store,
		embedder: embedder,
		llm:      llm,
		cfg:      cfg,
	}
}

// Ask answers question from the indexed corpus.
func (s *AskService) Ask(ctx context.Context, question string, opts domain.RetrieveOptions) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrEmptyQuery
	}

	serving, err := s.serving(ctx)
	if err != nil {
		return nil, err
	}
	return serving.Ask(ctx, question, opts)
}

// Retrieve returns ranked chunks for question without generating an answer.
func (s *AskService) Retrieve(ctx context.Context, question string, opts domain.RetrieveOptions) (*domain.Retrieval, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrEmptyQuery
	}

	serving, err := s.serving(ctx)
	if err != nil {
		return nil, err
	}
	return serving.Retrieve(ctx, question, opts)
}

// Stats returns the manifest of the artifact being served, or of the one on
// disk when nothing has been loaded yet.
func (s *AskService) Stats(ctx context.Context) (*domain.Manifest, error) {
	if cur := s.current.Load(); cur != nil {
		manifest := cur.Manifest()
		return &manifest, nil
	}
	return s.store.Manifest(ctx)
}

// Reload loads the artifact again and swaps it in. On failure the previous
// snapshot keeps serving.
func (s *AskService) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	next, err := LoadServingContext(ctx, s.store, s.embedder, s.llm, s.cfg)
	if err != nil {
		return err
	}

	// The previous snapshot is not closed: in-flight queries may still hold it.
	s.current.Store(next)
	logger.Info("Serving artifact %s (%d chunks)", next.Manifest().BuildID, next.Manifest().ChunkCount)
	return nil
}

// serving returns the current snapshot, loading it on first use.
func (s *AskService) serving(ctx context.Context) (*ServingContext, error) {
	if cur := s.current.Load(); cur != nil {
		return cur, nil
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if cur := s.current.Load(); cur != nil {
		return cur, nil
	}

	next, err := LoadServingContext(ctx, s.store, s.embedder, s.llm, s.cfg)
	if err != nil {
		return nil, err
	}
	s.current.Store(next)
	return next, nil
}
