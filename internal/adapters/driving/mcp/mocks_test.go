package mcp

import (
	"context"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer    *domain.Answer
	retrieval *domain.Retrieval
	manifest  *domain.Manifest
	err       error
	gotOpts   domain.RetrieveOptions
	gotQuery  string
	reloads   int
}

func (m *mockAskService) Ask(_ context.Context, question string, opts domain.RetrieveOptions) (*domain.Answer, error) {
	m.gotQuery = question
	m.gotOpts = opts
	return m.answer, m.err
}

func (m *mockAskService) Retrieve(_ context.Context, question string, opts domain.RetrieveOptions) (*domain.Retrieval, error) {
	m.gotQuery = question
	m.gotOpts = opts
	return m.retrieval, m.err
}

func (m *mockAskService) Stats(_ context.Context) (*domain.Manifest, error) {
	return m.manifest, m.err
}

func (m *mockAskService) Reload(_ context.Context) error {
	m.reloads++
	return m.err
}

func hostelRetrieval() *domain.Retrieval {
	return &domain.Retrieval{
		Query: "What is the hostel fee?",
		Chunks: []domain.RetrievedChunk{
			{ID: 1, Text: "Hostel fee is 20000 rupees per semester.", Source: "B", Distance: 0.42},
			{ID: 0, Text: "Admission fee is 50000 rupees per year.", Source: "A", Distance: 1.1},
		},
	}
}
