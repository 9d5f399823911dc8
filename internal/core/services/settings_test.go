package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// clearAPIKeyEnv keeps the developer's environment out of the test.
func clearAPIKeyEnv(t *testing.T) {
	t.Helper()
	t.Setenv(envOpenAIKey, "")
	t.Setenv(envAnthropicKey, "")
}

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	clearAPIKeyEnv(t)
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding, settings.Embedding)
	assert.Equal(t, defaults.LLM, settings.LLM)
	assert.Equal(t, defaults.Chunking, settings.Chunking)
	assert.Equal(t, defaults.Retrieval, settings.Retrieval)
	assert.Equal(t, defaults.Crawl, settings.Crawl)
	assert.Equal(t, filepath.Join(".", "index"), settings.Index.Dir)
	assert.Equal(t, domain.DefaultBatchSize, settings.Index.BatchSize)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	clearAPIKeyEnv(t)
	store := memory.NewConfigStore(map[string]any{
		keyEmbedProvider:  "ollama",
		keyLLMModel:       "gpt-4o",
		keyLLMTemperature: 0.7,
		keyChunkSize:      int64(400),
		keyKReturn:        3,
		keyCrawlTimeout:   "30s",
		keyIndexDir:       "/data/index",
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, "gpt-4o", settings.LLM.Model)
	assert.InDelta(t, 0.7, settings.LLM.Temperature, 1e-9)
	assert.Equal(t, 400, settings.Chunking.Size)
	assert.Equal(t, 3, settings.Retrieval.KReturn)
	assert.Equal(t, 30*time.Second, settings.Crawl.Timeout)
	assert.Equal(t, "/data/index", settings.Index.Dir)
}

func TestSettingsService_Get_ExplicitZeroAndNegativeKept(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		keyLLMTemperature: 0.0,
		keyMinChars:       -1,
		keyMinWords:       0,
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Zero(t, settings.LLM.Temperature)
	assert.Equal(t, -1, settings.Chunking.MinChars)
	assert.Equal(t, 0, settings.Chunking.MinWords)
}

func TestSettingsService_Get_InvalidProviderReturnsDefault(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{keyEmbedProvider: "invalid_provider"})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings().Embedding.Provider, settings.Embedding.Provider)
}

func TestSettingsService_Get_APIKeyFromEnvironment(t *testing.T) {
	t.Setenv(envOpenAIKey, "sk-env")
	t.Setenv(envAnthropicKey, "ant-env")

	store := memory.NewConfigStore(map[string]any{keyLLMProvider: "anthropic"})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "sk-env", settings.Embedding.APIKey)
	assert.Equal(t, "ant-env", settings.LLM.APIKey)
}

func TestSettingsService_Get_ConfiguredAPIKeyWins(t *testing.T) {
	t.Setenv(envOpenAIKey, "sk-env")

	store := memory.NewConfigStore(map[string]any{keyEmbedAPIKey: "sk-file"})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "sk-file", settings.Embedding.APIKey)
	assert.Equal(t, "sk-env", settings.LLM.APIKey)
}

func TestSettingsService_Save(t *testing.T) {
	clearAPIKeyEnv(t)
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := service.GetDefaults()
	settings.LLM.Model = "gpt-4o"
	settings.LLM.APIKey = "sk-test"
	settings.Chunking.MinChars = -1
	settings.Crawl.Timeout = 5 * time.Second

	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "gpt-4o", store.GetString(keyLLMModel))
	assert.Equal(t, "sk-test", store.GetString(keyLLMAPIKey))
	assert.Equal(t, -1, store.GetInt(keyMinChars))
	assert.Equal(t, "5s", store.GetString(keyCrawlTimeout))

	loaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *loaded)
}

func TestSettingsService_Save_DoesNotPersistEnvironmentKey(t *testing.T) {
	t.Setenv(envOpenAIKey, "sk-env")
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings, err := service.Get()
	require.NoError(t, err)
	require.NoError(t, service.Save(settings))

	_, exists := store.Get(keyEmbedAPIKey)
	assert.False(t, exists)
	_, exists = store.Get(keyLLMAPIKey)
	assert.False(t, exists)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  any
	}{
		{name: "int", key: keyKSearch, value: "12", want: 12},
		{name: "negative int", key: keyMinWords, value: "-1", want: -1},
		{name: "float", key: keyLLMTemperature, value: "0.5", want: 0.5},
		{name: "duration", key: keyCrawlTimeout, value: "1m", want: "1m0s"},
		{name: "provider", key: keyLLMProvider, value: "ollama", want: "ollama"},
		{name: "string trimmed", key: keyUserAgent, value: " bot/2 ", want: "bot/2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store, nil)

			require.NoError(t, service.Set(tt.key, tt.value))

			got, exists := store.Get(tt.key)
			require.True(t, exists)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_Set_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown key", key: "search.mode", value: "hybrid"},
		{name: "bad int", key: keyChunkSize, value: "big"},
		{name: "bad float", key: keyLLMTemperature, value: "warm"},
		{name: "bad duration", key: keyCrawlTimeout, value: "10"},
		{name: "bad provider", key: keyEmbedProvider, value: "cohere"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store, nil)

			err := service.Set(tt.key, tt.value)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, store.Keys())
		})
	}
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	clearAPIKeyEnv(t)
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, defaultOllamaURL, settings.Embedding.BaseURL)
	assert.Empty(t, settings.Embedding.APIKey)
}

func TestSettingsService_SetEmbeddingProvider_Local(t *testing.T) {
	clearAPIKeyEnv(t)
	service := NewSettingsService(memory.NewConfigStore(), nil)

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderLocal, "", ""))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.Empty(t, settings.Embedding.BaseURL)
	assert.Empty(t, settings.Embedding.APIKey)
}

func TestSettingsService_SetEmbeddingProvider_Errors(t *testing.T) {
	clearAPIKeyEnv(t)
	service := NewSettingsService(memory.NewConfigStore(), nil)

	err := service.SetEmbeddingProvider("cohere", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid embedding provider")

	err = service.SetEmbeddingProvider(domain.AIProviderAnthropic, "", "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support embeddings")

	err = service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key required")
}

func TestSettingsService_SetProvider_UsesEnvKey(t *testing.T) {
	clearAPIKeyEnv(t)
	t.Setenv(envOpenAIKey, "sk-from-env-1234")
	t.Setenv(envAnthropicKey, "sk-ant-from-env")
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)
	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderLocal, "", ""))
	require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", ""))
	require.NoError(t, service.SetLLMProvider(domain.AIProviderAnthropic, "", ""))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env-1234", settings.Embedding.APIKey)
	assert.Equal(t, "sk-ant-from-env", settings.LLM.APIKey)
	assert.Empty(t, store.GetString(keyEmbedAPIKey), "env keys are not persisted")
	assert.Empty(t, store.GetString(keyLLMAPIKey))
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	clearAPIKeyEnv(t)
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderAnthropic, "", "ant-key"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", settings.LLM.Model)
	assert.Equal(t, "ant-key", settings.LLM.APIKey)
	assert.Empty(t, settings.LLM.BaseURL)
}

func TestSettingsService_SetLLMProvider_KeepsExistingKey(t *testing.T) {
	clearAPIKeyEnv(t)
	store := memory.NewConfigStore(map[string]any{keyLLMAPIKey: "sk-old"})
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderOpenAI, "gpt-4o", ""))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", settings.LLM.Model)
	assert.Equal(t, "sk-old", settings.LLM.APIKey)
}

func TestSettingsService_SetLLMProvider_Errors(t *testing.T) {
	clearAPIKeyEnv(t)
	service := NewSettingsService(memory.NewConfigStore(), nil)

	err := service.SetLLMProvider(domain.AIProviderLocal, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support text generation")

	err = service.SetLLMProvider(domain.AIProviderAnthropic, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key required")
}

func TestSettingsService_Validate(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		t.Setenv(envOpenAIKey, "sk-env")
		service := NewSettingsService(memory.NewConfigStore(), nil)
		assert.NoError(t, service.Validate())
	})

	t.Run("missing API key", func(t *testing.T) {
		clearAPIKeyEnv(t)
		service := NewSettingsService(memory.NewConfigStore(), nil)

		err := service.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding provider")
		assert.Contains(t, err.Error(), "LLM provider")
	})

	t.Run("bad chunking", func(t *testing.T) {
		t.Setenv(envOpenAIKey, "sk-env")
		store := memory.NewConfigStore(map[string]any{keyChunkSize: 100, keyChunkOverlap: 100})
		service := NewSettingsService(store, nil)

		err := service.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), keyChunkOverlap)
	})

	t.Run("k_search below k_return", func(t *testing.T) {
		t.Setenv(envOpenAIKey, "sk-env")
		store := memory.NewConfigStore(map[string]any{keyKSearch: 2})
		service := NewSettingsService(store, nil)

		err := service.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), keyKSearch)
	})
}

type stubValidator struct {
	embeddingErr error
	llmErr       error
	gotEmbedding *domain.EmbeddingSettings
	gotLLM       *domain.LLMSettings
}

func (v *stubValidator) ValidateEmbedding(cfg *domain.EmbeddingSettings) error {
	v.gotEmbedding = cfg
	return v.embeddingErr
}

func (v *stubValidator) ValidateLLM(cfg *domain.LLMSettings) error {
	v.gotLLM = cfg
	return v.llmErr
}

func TestSettingsService_ValidateConfigs(t *testing.T) {
	clearAPIKeyEnv(t)
	validator := &stubValidator{llmErr: errors.New("unreachable")}
	store := memory.NewConfigStore(map[string]any{keyEmbedProvider: "local"})
	service := NewSettingsService(store, validator)

	require.NoError(t, service.ValidateEmbeddingConfig())
	require.NotNil(t, validator.gotEmbedding)
	assert.Equal(t, domain.AIProviderLocal, validator.gotEmbedding.Provider)

	err := service.ValidateLLMConfig()
	require.Error(t, err)
	assert.Equal(t, "unreachable", err.Error())
}

func TestSettingsService_ValidateConfigs_NilValidator(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.NoError(t, service.ValidateEmbeddingConfig())
	assert.NoError(t, service.ValidateLLMConfig())
}

func TestSettingsService_KeysAndPath(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	keys := service.Keys()
	assert.Len(t, keys, len(settingKeys))
	assert.Equal(t, keyEmbedProvider, keys[0])
	assert.Contains(t, keys, keyMaxContextChars)
	assert.Equal(t, ":memory:", service.Path())
}
