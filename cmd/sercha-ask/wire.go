package main

import (
	"fmt"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driven/artifact"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driven/vectorindex/flat"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-ask/internal/connectors"
	"github.com/custodia-labs/sercha-ask/internal/connectors/web"
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/core/services"
	"github.com/custodia-labs/sercha-ask/internal/logger"
	"github.com/custodia-labs/sercha-ask/internal/normalisers"
	"github.com/custodia-labs/sercha-ask/internal/postprocessors"
)

// wire builds the services for one command run.
// A missing embedder is not fatal: settings still work, and the reason is
// reported when an index or ask command needs it.
func wire(opts cli.Options) (*cli.Services, error) {
	configStore, err := openConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	dir := settings.Index.Dir
	if opts.IndexDir != "" {
		dir = opts.IndexDir
	}

	store, err := artifact.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open index directory: %w", err)
	}

	svcs := &cli.Services{
		Settings: settingsService,
		IndexDir: store.Location(),
	}

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Debug("embedding service unavailable: %v", err)
		svcs.Unavailable = err
		return svcs, nil
	}

	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		logger.Debug("LLM service unavailable, answering is disabled: %v", err)
	}

	registry := normalisers.NewDefaultRegistry()
	client := web.NewClient(web.Config{
		MaxPages:          settings.Crawl.MaxPages,
		RequestsPerSecond: settings.Crawl.RequestsPerSecond,
		Timeout:           settings.Crawl.Timeout,
		UserAgent:         settings.Crawl.UserAgent,
	}, registry)

	builder := services.NewIndexBuilder(services.BuilderConfig{
		Store:     store,
		Embedder:  embedder,
		Splitter:  postprocessors.FromSettings(settings.Chunking),
		NewIndex:  func() driven.VectorIndex { return flat.New() },
		NewCorpus: func() driven.CorpusStore { return memory.NewCorpusStore() },
		Chunking:  settings.Chunking,
		BatchSize: settings.Index.BatchSize,
	})
	svcs.Index = services.NewIndexService(connectors.NewResolver(registry, client), builder, store)

	svcs.Ask = services.NewAskService(store, embedder, llm, services.ServingConfig{
		Retrieve: domain.RetrieveOptions{
			KSearch: settings.Retrieval.KSearch,
			KReturn: settings.Retrieval.KReturn,
		},
		Synthesis: services.SynthesisOptions{
			MaxContextChars: settings.Retrieval.MaxContextChars,
			Temperature:     settings.LLM.Temperature,
			MaxTokens:       settings.LLM.MaxTokens,
		},
	})

	return svcs, nil
}

func openConfig(path string) (*file.ConfigStore, error) {
	if path != "" {
		return file.NewConfigStoreAt(path)
	}
	return file.NewConfigStore("")
}
