package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/logger"
)

// contextSeparator joins retrieved chunks in the prompt context.
const contextSeparator = "\n\n"

// promptTemplate takes the context text, then the question.
const promptTemplate = `
You are a college information assistant.

The context may contain:
- tables
- scanned or OCR text
- broken formatting
- fee structures

Your job is to carefully extract facts, numbers, and rules
from the context and answer clearly.

If numbers or policies appear, you MUST use them.
Only say "Information not available" if the context is empty.

Context:
%s

Question:
%s

Answer clearly using bullet points or short paragraphs.
`

// SynthesisOptions controls prompt size and generation.
type SynthesisOptions struct {
	// MaxContextChars caps the context in characters (default: 5000).
	MaxContextChars int

	// Temperature is passed to the model as given.
	Temperature float64

	// MaxTokens bounds the answer length (default: 400).
	MaxTokens int
}

// DefaultSynthesisOptions returns the standard generation settings.
func DefaultSynthesisOptions() SynthesisOptions {
	return SynthesisOptions{
		MaxContextChars: domain.DefaultMaxContextChars,
		Temperature:     domain.DefaultTemperature,
		MaxTokens:       domain.DefaultMaxTokens,
	}
}

// AnswerSynthesizer turns retrieved chunks into an answer.
type AnswerSynthesizer struct {
	llm  driven.LLMService
	opts SynthesisOptions
}

// NewAnswerSynthesizer creates a synthesizer. llm may be nil, in which case
// only questions with nothing retrieved can be answered.
func NewAnswerSynthesizer(llm driven.LLMService, opts SynthesisOptions) *AnswerSynthesizer {
	if opts.MaxContextChars <= 0 {
		opts.MaxContextChars = domain.DefaultMaxContextChars
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = domain.DefaultMaxTokens
	}
	return &AnswerSynthesizer{llm: llm, opts: opts}
}

// Synthesize answers query from retrieval. With nothing retrieved it returns
// domain.NoAnswer and no sources without calling the model.
func (s *AnswerSynthesizer) Synthesize(ctx context.Context, query string, retrieval *domain.Retrieval) (*domain.Answer, error) {
	if retrieval.IsEmpty() {
		logger.Debug("No chunks retrieved, returning %q", domain.NoAnswer)
		return &domain.Answer{
			Query:     query,
			Text:      domain.NoAnswer,
			Sources:   []string{},
			Retrieval: retrieval,
		}, nil
	}

	if s.llm == nil {
		return nil, fmt.Errorf("synthesize answer: no model configured: %w", domain.ErrLLMUnavailable)
	}

	contextText := BuildContext(retrieval.Texts(), s.opts.MaxContextChars)
	prompt := BuildPrompt(contextText, query)
	logger.Debug("Prompt: %d context chars from %d chunks", len([]rune(contextText)), len(retrieval.Chunks))

	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrLLMUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
		return nil, fmt.Errorf("generate answer with %s: %w", s.llm.ModelName(), err)
	}

	return &domain.Answer{
		Query:     query,
		Text:      text,
		Sources:   retrieval.SourceSet(),
		Retrieval: retrieval,
	}, nil
}

// BuildContext joins texts with blank lines and cuts the result to at most
// maxChars characters. The cut may fall mid-chunk. maxChars <= 0 disables the cap.
func BuildContext(texts []string, maxChars int) string {
	joined := strings.Join(texts, contextSeparator)
	if maxChars <= 0 {
		return joined
	}

	count := 0
	for i := range joined {
		if count == maxChars {
			return joined[:i]
		}
		count++
	}
	return joined
}

// BuildPrompt fills the assistant template with context and question.
func BuildPrompt(contextText, query string) string {
	return fmt.Sprintf(promptTemplate, contextText, query)
}
