package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	KSearch  int    `json:"k_search,omitempty" jsonschema:"number of nearest chunks to examine (default 8)"`
	KReturn  int    `json:"k_return,omitempty" jsonschema:"number of chunks used as context (default 5)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string        `json:"answer"`
	Sources []string      `json:"sources"`
	Chunks  []ChunkOutput `json:"chunks"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Question string `json:"question" jsonschema:"the question to find relevant passages for"`
	KSearch  int    `json:"k_search,omitempty" jsonschema:"number of nearest chunks to examine (default 8)"`
	KReturn  int    `json:"k_return,omitempty" jsonschema:"number of chunks to return (default 5)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks []ChunkOutput `json:"chunks"`
	Count  int           `json:"count"`
}

// ChunkOutput represents a single retrieved chunk.
type ChunkOutput struct {
	ID       int     `json:"id"`
	Source   string  `json:"source"`
	Distance float32 `json:"distance"`
	Text     string  `json:"text"`
}

// StatsInput is the (empty) input schema for the index_stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the index_stats tool and the manifest resource.
type StatsOutput struct {
	BuildID          string `json:"build_id"`
	CreatedAt        string `json:"created_at"`
	EmbeddingModel   string `json:"embedding_model"`
	Dimensions       int    `json:"dimensions"`
	Chunks           int    `json:"chunks"`
	Documents        int    `json:"documents"`
	SkippedDocuments int    `json:"skipped_documents"`
	ChunkSize        int    `json:"chunk_size"`
	ChunkOverlap     int    `json:"chunk_overlap"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the indexed documents, citing the sources used",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Return the indexed passages nearest to a question, without generating an answer",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_stats",
		Description: "Describe the index being served: build, embedding model and sizes",
	}, s.handleStats)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	opts := domain.RetrieveOptions{KSearch: input.KSearch, KReturn: input.KReturn}
	answer, err := s.ports.Ask.Ask(ctx, input.Question, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:  answer.Text,
		Sources: answer.Sources,
		Chunks:  chunkOutputs(answer.Retrieval),
	}, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	opts := domain.RetrieveOptions{KSearch: input.KSearch, KReturn: input.KReturn}
	retrieval, err := s.ports.Ask.Retrieve(ctx, input.Question, opts)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	chunks := chunkOutputs(retrieval)
	return nil, RetrieveOutput{Chunks: chunks, Count: len(chunks)}, nil
}

// handleStats handles the index_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	manifest, err := s.ports.Ask.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}
	return nil, statsOutput(manifest), nil
}

func chunkOutputs(retrieval *domain.Retrieval) []ChunkOutput {
	if retrieval == nil {
		return []ChunkOutput{}
	}
	out := make([]ChunkOutput, len(retrieval.Chunks))
	for i, c := range retrieval.Chunks {
		out[i] = ChunkOutput{ID: c.ID, Source: c.Source, Distance: c.Distance, Text: c.Text}
	}
	return out
}

func statsOutput(m *domain.Manifest) StatsOutput {
	return StatsOutput{
		BuildID:          m.BuildID,
		CreatedAt:        m.CreatedAt.UTC().Format(time.RFC3339),
		EmbeddingModel:   m.EmbeddingModel,
		Dimensions:       m.Dimensions,
		Chunks:           m.ChunkCount,
		Documents:        m.DocumentCount,
		SkippedDocuments: m.SkippedDocuments,
		ChunkSize:        m.ChunkSize,
		ChunkOverlap:     m.ChunkOverlap,
	}
}
