package driven

import "github.com/custodia-labs/sercha-ask/internal/core/domain"

// AIConfigValidator checks provider settings against the live services
// before they are relied on by a build or a query.
type AIConfigValidator interface {
	// ValidateEmbedding reaches the embedding provider and checks that its
	// vectors have the advertised dimension. Unconfigured settings pass.
	ValidateEmbedding(settings *domain.EmbeddingSettings) error

	// ValidateLLM reaches the LLM provider. Unconfigured settings pass.
	ValidateLLM(settings *domain.LLMSettings) error
}
