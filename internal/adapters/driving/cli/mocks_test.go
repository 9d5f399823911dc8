package cli

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/services"
)

// mockAskService implements driving.AskService for testing.
type mockAskService struct {
	answer    *domain.Answer
	retrieval *domain.Retrieval
	manifest  *domain.Manifest
	err       error

	gotQuestion string
	gotOpts     domain.RetrieveOptions
	reloads     atomic.Int32
}

func (m *mockAskService) Ask(_ context.Context, q string, opts domain.RetrieveOptions) (*domain.Answer, error) {
	m.gotQuestion, m.gotOpts = q, opts
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockAskService) Retrieve(_ context.Context, q string, opts domain.RetrieveOptions) (*domain.Retrieval, error) {
	m.gotQuestion, m.gotOpts = q, opts
	if m.err != nil {
		return nil, m.err
	}
	return m.retrieval, nil
}

func (m *mockAskService) Stats(context.Context) (*domain.Manifest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.manifest, nil
}

func (m *mockAskService) Reload(context.Context) error {
	m.reloads.Add(1)
	return m.err
}

// mockIndexService implements driving.IndexService for testing.
type mockIndexService struct {
	report *domain.BuildReport
	err    error
	got    domain.BuildRequest
	calls  int
}

func (m *mockIndexService) Index(_ context.Context, req domain.BuildRequest) (*domain.BuildReport, error) {
	m.calls++
	m.got = req
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

func (m *mockIndexService) Location() string {
	return "/tmp/sercha-ask/index"
}

func hostelRetrieval() *domain.Retrieval {
	return &domain.Retrieval{
		Query: "What is the hostel fee?",
		Chunks: []domain.RetrievedChunk{
			{ID: 1, Text: "Hostel fee is 20000 rupees per semester.", Source: "B", Distance: 0.25},
			{ID: 0, Text: "Library opens at 9am.", Source: "A", Distance: 1.5},
		},
	}
}

func testManifest() *domain.Manifest {
	return &domain.Manifest{
		BuildID:        "build-1",
		CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		EmbeddingModel: "hashing-bow",
		Dimensions:     1024,
		ChunkCount:     2,
		DocumentCount:  2,
		ChunkSize:      800,
		ChunkOverlap:   100,
		MinChars:       250,
		MinWords:       40,
	}
}

var (
	testAsk   *mockAskService
	testIndex *mockIndexService
)

// setupTestServices installs mock services and returns a cleanup that restores the previous ones.
func setupTestServices() func() {
	oldAsk, oldIndex, oldSettings := askService, indexService, settingsService
	oldDir, oldUnavailable, oldBootstrap := indexDir, unavailable, bootstrap

	testAsk = &mockAskService{
		answer: &domain.Answer{
			Query:     "What is the hostel fee?",
			Text:      "The hostel fee is 20000 rupees per semester.",
			Sources:   []string{"B"},
			Retrieval: hostelRetrieval(),
		},
		retrieval: hostelRetrieval(),
		manifest:  testManifest(),
	}
	testIndex = &mockIndexService{
		report: &domain.BuildReport{
			Manifest:  *testManifest(),
			Documents: 2,
			Skipped:   []domain.SkippedDocument{{Location: "broken.pdf", Reason: "extraction failed: no text"}},
			Rejected:  3,
			Samples: []domain.Chunk{
				{Text: "Hostel fee is 20000 rupees per semester.", Source: "B"},
			},
			Duration: 1500 * time.Millisecond,
		},
	}

	askService = testAsk
	indexService = testIndex
	settingsService = services.NewSettingsService(memory.NewConfigStore(), nil)
	indexDir = "/tmp/sercha-ask/index"
	unavailable = nil
	bootstrap = nil

	return func() {
		askService, indexService, settingsService = oldAsk, oldIndex, oldSettings
		indexDir, unavailable, bootstrap = oldDir, oldUnavailable, oldBootstrap
	}
}

var errBoom = errors.New("boom")
