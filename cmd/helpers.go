package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ziadkadry99/cerebro/internal/assistant"
	"github.com/ziadkadry99/cerebro/internal/catalog"
	"github.com/ziadkadry99/cerebro/internal/config"
	"github.com/ziadkadry99/cerebro/internal/db"
	"github.com/ziadkadry99/cerebro/internal/embeddings"
	"github.com/ziadkadry99/cerebro/internal/intent"
	"github.com/ziadkadry99/cerebro/internal/knowledge"
	"github.com/ziadkadry99/cerebro/internal/llm"
	"github.com/ziadkadry99/cerebro/internal/prompt"
	"github.com/ziadkadry99/cerebro/internal/usage"
	"github.com/ziadkadry99/cerebro/internal/vectordb"
)

// articleMinSimilarity is the cosine score below which a semantic article hit
// is ignored in favour of keyword lookup.
const articleMinSimilarity = 0.3

// app is everything a command needs, wired from one config.
type app struct {
	cfg      *config.Config
	db       *db.DB
	catalog  *catalog.Store
	usage    *usage.Store
	recorder *usage.Recorder
	index    *catalog.ArticleIndex
	vectors  vectordb.VectorStore
	pipeline *assistant.Pipeline
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `cerebro init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// createLLMProviderFromConfig creates the rate-limited text-generation provider.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Models.Standard)
	if err != nil {
		return nil, err
	}
	return llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute), nil
}

// createEmbedderFromConfig returns nil when the semantic index is disabled.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	if cfg.EmbeddingModel == "" {
		return nil, nil
	}
	apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for embeddings")
	}
	return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel), os.Getenv("OPENAI_BASE_URL")), nil
}

func loadClassifier(cfg *config.Config) (*intent.Classifier, error) {
	if cfg.IntentsFile == "" {
		return intent.MustDefault(), nil
	}
	rules, err := intent.LoadRules(cfg.IntentsFile)
	if err != nil {
		return nil, err
	}
	return intent.New(rules)
}

// openApp opens storage and builds the pipeline. A missing provider
// credential is not fatal; every request then fails with a configuration
// error.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &app{
		cfg:     cfg,
		db:      database,
		catalog: catalog.NewStore(database),
		usage:   usage.NewStore(database),
	}

	classifier, err := loadClassifier(cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("loading intent rules: %w", err)
	}

	var opts []knowledge.Option
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		logger.Warn("semantic article search disabled", zap.Error(err))
	} else if embedder != nil {
		vectors, err := vectordb.NewChromemStore(embedder)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("creating vector store: %w", err)
		}
		switch err := vectors.Load(ctx, cfg.VectorDir()); {
		case errors.Is(err, vectordb.ErrNoIndex):
			logger.Info("no article index yet; run `cerebro seed --index`", zap.String("dir", cfg.VectorDir()))
		case err != nil:
			logger.Warn("could not load article index", zap.String("dir", cfg.VectorDir()), zap.Error(err))
		}
		a.vectors = vectors
		a.index = catalog.NewArticleIndex(vectors, a.catalog)
		a.index.MinSimilarity = articleMinSimilarity
		if a.index.Count() > 0 {
			opts = append(opts, knowledge.WithArticleSearcher(a.index))
		}
	}

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		logger.Warn("text generation unavailable", zap.Error(err))
	}
	gateway := llm.NewGateway(provider, llm.GatewayConfig{
		Models: llm.TierModels{
			llm.TierStandard: cfg.Models.Standard,
			llm.TierGPT5:     cfg.Models.GPT5,
		},
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.RequestTimeout,
	})

	a.recorder = usage.NewRecorder(a.usage, logger, cfg.Metrics.QueueSize)
	a.pipeline = assistant.NewPipeline(assistant.Deps{
		Classifier:  classifier,
		Knowledge:   knowledge.NewRegistry(a.catalog, logger, opts...),
		Composer:    prompt.NewComposer(cfg.HistoryTokenBudget),
		Generator:   gateway,
		Recorder:    a.recorder,
		ServiceName: cfg.Metrics.ServiceName,
		Logger:      logger,
	})
	return a, nil
}

// Close flushes pending usage records and closes the database.
func (a *app) Close() {
	a.recorder.Close()
	a.db.Close()
}
