package tui

import (
	"context"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// mockAskService implements driving.AskService for testing.
type mockAskService struct {
	answer   *domain.Answer
	err      error
	manifest *domain.Manifest
	statsErr error
}

func (m *mockAskService) Ask(_ context.Context, q string, _ domain.RetrieveOptions) (*domain.Answer, error) {
	if m.answer == nil && m.err == nil {
		return &domain.Answer{Query: q, Text: domain.NoAnswer, Sources: []string{}}, nil
	}
	return m.answer, m.err
}

func (m *mockAskService) Retrieve(_ context.Context, q string, _ domain.RetrieveOptions) (*domain.Retrieval, error) {
	return &domain.Retrieval{Query: q}, m.err
}

func (m *mockAskService) Stats(context.Context) (*domain.Manifest, error) {
	return m.manifest, m.statsErr
}

func (m *mockAskService) Reload(context.Context) error {
	return nil
}
