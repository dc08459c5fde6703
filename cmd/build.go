package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/embedding"
	"github.com/spigell/talent-matcher/internal/embedding/gemini"
	"github.com/spigell/talent-matcher/internal/embedding/openai"
	"github.com/spigell/talent-matcher/internal/logger"
	"github.com/spigell/talent-matcher/internal/matching"
	"github.com/spigell/talent-matcher/internal/ranking"
	"github.com/spigell/talent-matcher/internal/secrets"
	"github.com/spigell/talent-matcher/internal/store"
)

// newPipeline wires store, embedder and ranker. The returned func releases
// store connections.
func newPipeline(ctx context.Context, config *Config, log *zap.Logger) (*matching.Pipeline, func(), error) {
	if config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	st, closeStore, err := newStore(ctx, config.Store, log)
	if err != nil {
		return nil, nil, err
	}

	embedder, err := newEmbedder(ctx, config.Embedding, log)
	if err != nil {
		// Ranking still works through the profile strength fallback.
		log.Warn("embedding provider is unavailable, every request will use the fallback ranking",
			zap.Error(err),
			zap.String("hint", "set EMBEDDING_API_KEY_FILE or the 'embedding.api-key-file' key in the configuration file"),
		)
	}

	opts := ranking.Options{}
	var threshold *float64
	if config.Ranking != nil {
		opts.FallbackStrength = config.Ranking.FallbackStrength
		opts.Timeout = config.Ranking.Timeout
		threshold = config.Ranking.RelevanceThreshold
	}

	var ranker *ranking.Ranker
	if embedder != nil {
		ranker = ranking.NewRanker(embedder, opts, logger.WithCommonFields(log, embedder.Provider(), embedder.Model()))
	} else {
		ranker = ranking.NewRanker(nil, opts, log)
	}

	pipeline := matching.NewPipeline(st, ranker, matching.Options{RelevanceThreshold: threshold}, log)

	return pipeline, closeStore, nil
}

func newStore(ctx context.Context, cfg *StoreConfig, log *zap.Logger) (store.Store, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("store configuration is required")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", store.DriverFile:
		if strings.TrimSpace(cfg.File) == "" {
			return nil, nil, fmt.Errorf("store.file is required for the file store")
		}
		log.Info("using file store", zap.String("path", cfg.File))
		return store.NewFileStore(cfg.File, log), func() {}, nil

	case store.DriverPostgres:
		source := secrets.Source{Name: "postgres dsn"}
		if cfg.Postgres != nil {
			source.File = cfg.Postgres.DSNFile
		}

		dsn, err := secrets.Load(source)
		if err != nil {
			return nil, nil, fmt.Errorf("%w (set TALENT_PG_DSN_FILE or store.postgres.dsn-file)", err)
		}

		pg, err := store.NewPostgresStore(ctx, dsn, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using postgres store")
		return pg, pg.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}

func newEmbedder(ctx context.Context, cfg *EmbeddingConfig, log *zap.Logger) (embedding.Embedder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("embedding configuration is required")
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))

	var (
		embedder embedding.Embedder
		err      error
	)

	switch provider {
	case "", gemini.ProviderName:
		var apiKey string
		apiKey, err = secrets.Load(secrets.Source{Name: "gemini api key", File: cfg.APIKeyFile, Env: "GEMINI_API_KEY_FILE"})
		if err != nil {
			return nil, err
		}
		embedder, err = gemini.NewEmbedder(ctx, apiKey, cfg.Model, cfg.Dimensions, log)

	case openai.ProviderName:
		var apiKey string
		apiKey, err = secrets.Load(secrets.Source{Name: "openai api key", File: cfg.APIKeyFile, Env: "OPENAI_API_KEY_FILE"})
		if err != nil {
			return nil, err
		}
		embedder, err = openai.NewEmbedder(openai.Config{APIKey: apiKey, BaseURL: cfg.BaseURL, Model: cfg.Model}, log)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Cache != nil && cfg.Cache.Enabled {
		embedder = embedding.NewCache(embedder, cfg.Cache.TTL, log)
	}

	log.Info("embedding provider ready", logger.CommonFields(embedder.Provider(), embedder.Model())...)

	return embedder, nil
}
