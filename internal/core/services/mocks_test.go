package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Without embedFn every text maps to {len(text), 1}.
type mockEmbeddingService struct {
	mu         sync.Mutex
	model      string
	dims       int
	embedFn    func(text string) []float32
	embedErr   error
	shortBatch bool
	embeds     int
	batchSizes []int
}

func newMockEmbedder() *mockEmbeddingService {
	return &mockEmbeddingService{model: "mock-embed", dims: 2}
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	if m.embedFn != nil {
		return m.embedFn(text)
	}
	return []float32{float32(len(text)), 1}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embeds++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		out = append(out, m.vector(text))
	}
	if m.shortBatch {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return m.dims
}

func (m *mockEmbeddingService) ModelName() string {
	return m.model
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

func (m *mockEmbeddingService) embedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embeds
}

// mockLLMService implements driven.LLMService for testing.
// With echo set it returns the prompt it was given.
type mockLLMService struct {
	mu       sync.Mutex
	response string
	echo     bool
	err      error
	prompts  []string
	opts     []driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	if m.echo {
		return prompt, nil
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

func (m *mockLLMService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// mockArtifactStore implements driven.ArtifactStore for testing.
type mockArtifactStore struct {
	mu          sync.Mutex
	artifact    *driven.Artifact
	loadErr     error
	saved       *driven.Artifact
	saveErr     error
	lockErr     error
	manifest    *domain.Manifest
	manifestErr error
	loads       int
	locked      bool
	unlocks     int
}

func (m *mockArtifactStore) Save(_ context.Context, artifact *driven.Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = artifact
	return nil
}

func (m *mockArtifactStore) Load(_ context.Context) (*driven.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.artifact, nil
}

func (m *mockArtifactStore) Manifest(_ context.Context) (*domain.Manifest, error) {
	if m.manifestErr != nil {
		return nil, m.manifestErr
	}
	return m.manifest, nil
}

func (m *mockArtifactStore) Lock(_ context.Context) (func() error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lockErr != nil {
		return nil, m.lockErr
	}
	m.locked = true
	return func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.locked = false
		m.unlocks++
		return nil
	}, nil
}

func (m *mockArtifactStore) Location() string {
	return "/tmp/mock-index"
}

func (m *mockArtifactStore) loadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

func (m *mockArtifactStore) setArtifact(artifact *driven.Artifact, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifact = artifact
	m.loadErr = err
}

// mockSource implements driven.DocumentSource for testing.
type mockSource struct {
	location string
	kind     domain.SourceKind
	text     string
	err      error
}

func (m *mockSource) Location() string {
	return m.location
}

func (m *mockSource) Kind() domain.SourceKind {
	if m.kind == "" {
		return domain.SourceKindFile
	}
	return m.kind
}

func (m *mockSource) Extract(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.text, m.err
}

// lineSplitter implements driven.TextSplitter for testing.
// Each non-empty line is a chunk; lines starting with "~" are rejected.
type lineSplitter struct{}

func (lineSplitter) Split(text string) ([]string, int) {
	var kept []string
	rejected := 0
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.TrimSpace(line) == "":
		case strings.HasPrefix(line, "~"):
			rejected++
		default:
			kept = append(kept, line)
		}
	}
	return kept, rejected
}

// mockResolver implements driven.SourceResolver for testing.
type mockResolver struct {
	sources []driven.DocumentSource
	err     error
	got     []domain.BuildRequest
}

func (m *mockResolver) Resolve(_ context.Context, req domain.BuildRequest) ([]driven.DocumentSource, error) {
	m.got = append(m.got, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.sources, nil
}

// closeTrackingCorpus records whether the serving layer released the corpus.
type closeTrackingCorpus struct {
	driven.CorpusStore
	closed bool
}

func (c *closeTrackingCorpus) Close() error {
	c.closed = true
	return c.CorpusStore.Close()
}
