package driven

import "context"

// LLMService writes the answer from a filled prompt. The answer synthesizer
// makes exactly one Generate call per answered question and never retries.
type LLMService interface {
	// Generate returns the model's completion for prompt, verbatim.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName identifies the model, e.g. "gpt-4o-mini".
	ModelName() string

	// Ping makes a cheap request that proves the provider is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions are passed to the provider as given.
type GenerateOptions struct {
	// MaxTokens bounds the completion length.
	MaxTokens int

	// Temperature controls sampling; answers use a low value.
	Temperature float64

	// StopWords end the completion when produced.
	StopWords []string
}
