package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMTemperature  = "llm.temperature"
	keyLLMMaxTokens    = "llm.max_tokens"
	keyChunkSize       = "chunking.size"
	keyChunkOverlap    = "chunking.overlap"
	keyMinChars        = "chunking.min_chars"
	keyMinWords        = "chunking.min_words"
	keyKSearch         = "retrieval.k_search"
	keyKReturn         = "retrieval.k_return"
	keyMaxContextChars = "retrieval.max_context_chars"
	keyMaxPages        = "crawl.max_pages"
	keyRequestsPerSec  = "crawl.requests_per_second"
	keyCrawlTimeout    = "crawl.timeout"
	keyUserAgent       = "crawl.user_agent"
	keyIndexDir        = "index.dir"
	keyBatchSize       = "index.batch_size"
)

// Environment variables consulted when no API key is configured.
const (
	envOpenAIKey    = "OPENAI_API_KEY"
	envAnthropicKey = "ANTHROPIC_API_KEY"
)

// defaultOllamaURL is used for local providers with no base URL.
const defaultOllamaURL = "http://localhost:11434"

// valueKind is how a setting's string form is parsed.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindDuration
	kindProvider
)

// settingKey pairs a config key with how its value is parsed.
type settingKey struct {
	key  string
	kind valueKind
}

// settingKeys lists every supported key in display order.
var settingKeys = []settingKey{
	{keyEmbedProvider, kindProvider},
	{keyEmbedModel, kindString},
	{keyEmbedBaseURL, kindString},
	{keyEmbedAPIKey, kindString},
	{keyLLMProvider, kindProvider},
	{keyLLMModel, kindString},
	{keyLLMBaseURL, kindString},
	{keyLLMAPIKey, kindString},
	{keyLLMTemperature, kindFloat},
	{keyLLMMaxTokens, kindInt},
	{keyChunkSize, kindInt},
	{keyChunkOverlap, kindInt},
	{keyMinChars, kindInt},
	{keyMinWords, kindInt},
	{keyKSearch, kindInt},
	{keyKReturn, kindInt},
	{keyMaxContextChars, kindInt},
	{keyMaxPages, kindInt},
	{keyRequestsPerSec, kindFloat},
	{keyCrawlTimeout, kindDuration},
	{keyUserAgent, kindString},
	{keyIndexDir, kindString},
	{keyBatchSize, kindInt},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
// API keys fall back to OPENAI_API_KEY or ANTHROPIC_API_KEY when unset.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := s.GetDefaults()

	embedProvider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	llmProvider := s.getProvider(keyLLMProvider, defaults.LLM.Provider)

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: embedProvider,
			Model:    s.getString(keyEmbedModel, defaultModel(domain.DefaultEmbeddingModels(), embedProvider)),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.apiKey(keyEmbedAPIKey, embedProvider),
		},
		LLM: domain.LLMSettings{
			Provider:    llmProvider,
			Model:       s.getString(keyLLMModel, defaultModel(domain.DefaultLLMModels(), llmProvider)),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.apiKey(keyLLMAPIKey, llmProvider),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
			MaxTokens:   s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
		},
		Chunking: domain.ChunkingSettings{
			Size:     s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap:  s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
			MinChars: s.getInt(keyMinChars, defaults.Chunking.MinChars),
			MinWords: s.getInt(keyMinWords, defaults.Chunking.MinWords),
		},
		Retrieval: domain.RetrievalSettings{
			KSearch:         s.getInt(keyKSearch, defaults.Retrieval.KSearch),
			KReturn:         s.getInt(keyKReturn, defaults.Retrieval.KReturn),
			MaxContextChars: s.getInt(keyMaxContextChars, defaults.Retrieval.MaxContextChars),
		},
		Crawl: domain.CrawlSettings{
			MaxPages:          s.getInt(keyMaxPages, defaults.Crawl.MaxPages),
			RequestsPerSecond: s.getFloat(keyRequestsPerSec, defaults.Crawl.RequestsPerSecond),
			Timeout:           s.getDuration(keyCrawlTimeout, defaults.Crawl.Timeout),
			UserAgent:         s.getString(keyUserAgent, defaults.Crawl.UserAgent),
		},
		Index: domain.IndexSettings{
			Dir:       s.getString(keyIndexDir, defaults.Index.Dir),
			BatchSize: s.getInt(keyBatchSize, defaults.Index.BatchSize),
		},
	}

	return settings, nil
}

// Save persists application settings.
// API keys that only came from the environment are not written to the file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyMinChars, settings.Chunking.MinChars},
		{keyMinWords, settings.Chunking.MinWords},
		{keyKSearch, settings.Retrieval.KSearch},
		{keyKReturn, settings.Retrieval.KReturn},
		{keyMaxContextChars, settings.Retrieval.MaxContextChars},
		{keyMaxPages, settings.Crawl.MaxPages},
		{keyRequestsPerSec, settings.Crawl.RequestsPerSecond},
		{keyCrawlTimeout, settings.Crawl.Timeout.String()},
		{keyUserAgent, settings.Crawl.UserAgent},
		{keyIndexDir, settings.Index.Dir},
		{keyBatchSize, settings.Index.BatchSize},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if err := s.saveAPIKey(keyEmbedAPIKey, settings.Embedding.Provider, settings.Embedding.APIKey); err != nil {
		return err
	}
	return s.saveAPIKey(keyLLMAPIKey, settings.LLM.Provider, settings.LLM.APIKey)
}

// Set stores one setting by key, parsing value for the key's type.
func (s *SettingsService) Set(key, value string) error {
	idx := slices.IndexFunc(settingKeys, func(k settingKey) bool { return k.key == key })
	if idx < 0 {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseValue(settingKeys[idx].kind, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// parseValue converts a setting's string form to its stored type.
func parseValue(kind valueKind, value string) (any, error) {
	switch kind {
	case kindInt:
		return strconv.Atoi(value)
	case kindFloat:
		return strconv.ParseFloat(value, 64)
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, err
		}
		return d.String(), nil
	case kindProvider:
		provider := domain.AIProvider(value)
		if !provider.IsValid() {
			return nil, fmt.Errorf("unknown provider %q", value)
		}
		return provider.String(), nil
	default:
		return value, nil
	}
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if apiKey == "" && provider == settings.Embedding.Provider {
		apiKey = settings.Embedding.APIKey
	}
	if env := apiKeyEnv(provider); apiKey == "" && env != "" {
		apiKey = os.Getenv(env)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = defaultModel(domain.DefaultEmbeddingModels(), provider)
	}

	// Set base URL based on provider type
	switch {
	case provider == domain.AIProviderOllama:
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaURL
		}
	default:
		// Cloud and in-process providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey
	if !provider.RequiresAPIKey() {
		settings.Embedding.APIKey = ""
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if !slices.Contains(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("provider %s does not support text generation", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if apiKey == "" && provider == settings.LLM.Provider {
		apiKey = settings.LLM.APIKey
	}
	if env := apiKeyEnv(provider); apiKey == "" && env != "" {
		apiKey = os.Getenv(env)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = defaultModel(domain.DefaultLLMModels(), provider)
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = defaultOllamaURL
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey
	if !provider.RequiresAPIKey() {
		settings.LLM.APIKey = ""
	}

	return s.Save(settings)
}

// Validate checks that the settings can build and query an index.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if !settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider))
	}
	if !settings.LLM.IsConfigured() {
		errs = append(errs, fmt.Errorf("LLM provider %q is not configured", settings.LLM.Provider))
	}
	if settings.Chunking.Size <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", keyChunkSize))
	}
	if settings.Chunking.Overlap < 0 || settings.Chunking.Overlap >= settings.Chunking.Size {
		errs = append(errs, fmt.Errorf("%s must be between 0 and %s", keyChunkOverlap, keyChunkSize))
	}
	if settings.Retrieval.KSearch < settings.Retrieval.KReturn {
		errs = append(errs, fmt.Errorf("%s must be at least %s", keyKSearch, keyKReturn))
	}

	return errors.Join(errs...)
}

// GetDefaults returns default settings. The index lives next to the config file.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	defaults := domain.DefaultAppSettings()
	defaults.Index.Dir = filepath.Join(filepath.Dir(s.configStore.Path()), "index")
	return defaults
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Keys lists the supported setting keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKeys))
	for _, k := range settingKeys {
		keys = append(keys, k.key)
	}
	return keys
}

// Path returns the config file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.
// A key that is present always wins, so 0 and -1 can be configured.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if d := s.configStore.GetDuration(key); d > 0 {
		return d
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

// apiKey reads a configured key, falling back to the provider's environment variable.
func (s *SettingsService) apiKey(key string, provider domain.AIProvider) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	if env := apiKeyEnv(provider); env != "" {
		return os.Getenv(env)
	}
	return ""
}

// saveAPIKey writes value unless it is empty or merely mirrors the environment.
func (s *SettingsService) saveAPIKey(key string, provider domain.AIProvider, value string) error {
	if value == "" {
		return nil
	}
	if env := apiKeyEnv(provider); env != "" && s.configStore.GetString(key) == "" && os.Getenv(env) == value {
		return nil
	}
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// apiKeyEnv names the environment variable holding the provider's key.
func apiKeyEnv(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return envOpenAIKey
	case domain.AIProviderAnthropic:
		return envAnthropicKey
	default:
		return ""
	}
}

// defaultModel returns the provider's default model, or "" when it has none.
func defaultModel(models map[domain.AIProvider]string, provider domain.AIProvider) string {
	return models[provider]
}
