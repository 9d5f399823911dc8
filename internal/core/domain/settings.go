package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderLocal is the in-process hashing embedder.
	// It needs no network access and is embeddings-only.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderLocal:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderLocal:
		return "Hashing bag-of-words (offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Temperature controls sampling randomness.
	Temperature float64

	// MaxTokens bounds the generated answer length.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings controls how documents are split and filtered.
type ChunkingSettings struct {
	// Size is the window length in characters.
	Size int

	// Overlap is the number of characters shared by consecutive windows.
	Overlap int

	// MinChars rejects chunks shorter than this.
	MinChars int

	// MinWords rejects chunks with fewer whitespace-delimited words.
	MinWords int
}

// RetrievalSettings controls retrieval and context assembly.
type RetrievalSettings struct {
	// KSearch is the number of neighbours examined.
	KSearch int

	// KReturn is the number of chunks kept.
	KReturn int

	// MaxContextChars is the hard cap on the context handed to the LLM.
	MaxContextChars int
}

// CrawlSettings controls website crawling.
type CrawlSettings struct {
	// MaxPages bounds the number of pages visited.
	MaxPages int

	// RequestsPerSecond throttles page fetches.
	RequestsPerSecond float64

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// IndexSettings controls where and how the artifact is built.
type IndexSettings struct {
	// Dir is the artifact directory.
	Dir string

	// BatchSize is the number of texts sent per embedding request.
	BatchSize int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Chunking holds chunker and quality filter settings.
	Chunking ChunkingSettings

	// Retrieval holds retriever and synthesizer settings.
	Retrieval RetrievalSettings

	// Crawl holds crawler settings.
	Crawl CrawlSettings

	// Index holds artifact settings.
	Index IndexSettings
}

// Default setting values.
const (
	DefaultChunkSize         = 800
	DefaultChunkOverlap      = 100
	DefaultMinChunkChars     = 250
	DefaultMinChunkWords     = 40
	DefaultMaxContextChars   = 5000
	DefaultTemperature       = 0.2
	DefaultMaxTokens         = 400
	DefaultMaxPages          = 25
	DefaultRequestsPerSecond = 2
	DefaultCrawlTimeout      = 10 * time.Second
	DefaultBatchSize         = 64
	DefaultUserAgent         = "sercha-ask/1.0"
)

// DefaultAppSettings returns settings with sensible defaults.
// The index directory is left empty; the config layer resolves it under the home directory.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModels()[AIProviderOpenAI],
		},
		LLM: LLMSettings{
			Provider:    AIProviderOpenAI,
			Model:       DefaultLLMModels()[AIProviderOpenAI],
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
		},
		Chunking: ChunkingSettings{
			Size:     DefaultChunkSize,
			Overlap:  DefaultChunkOverlap,
			MinChars: DefaultMinChunkChars,
			MinWords: DefaultMinChunkWords,
		},
		Retrieval: RetrievalSettings{
			KSearch:         DefaultKSearch,
			KReturn:         DefaultKReturn,
			MaxContextChars: DefaultMaxContextChars,
		},
		Crawl: CrawlSettings{
			MaxPages:          DefaultMaxPages,
			RequestsPerSecond: DefaultRequestsPerSecond,
			Timeout:           DefaultCrawlTimeout,
			UserAgent:         DefaultUserAgent,
		},
		Index: IndexSettings{
			BatchSize: DefaultBatchSize,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderOllama,
		AIProviderLocal,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderOllama,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderLocal:  "hashing-bow",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Offline
		"hashing-bow": 1024,
	}
}
