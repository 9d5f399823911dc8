package driving

import "github.com/custodia-labs/sercha-ask/internal/core/domain"

// SettingsService reads and edits the settings that shape a build and a query.
type SettingsService interface {
	// Get returns the stored settings over the defaults.
	// API keys fall back to the provider's environment variable.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set stores one setting by its dotted key, parsing value for the key's type.
	Set(key, value string) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks that the settings can build and query an index.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig reaches the configured embedding provider and checks its vector size.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig reaches the configured LLM provider.
	ValidateLLMConfig() error

	// Keys lists the supported setting keys in display order.
	Keys() []string

	// Path returns where settings are stored.
	Path() string
}
