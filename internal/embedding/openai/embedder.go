package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/embedding"
)

const (
	ProviderName = "openai"
	defaultModel = "text-embedding-3-small"
)

type embeddingCreator interface {
	New(ctx context.Context, body openai.EmbeddingNewParams, opts ...option.RequestOption) (*openai.CreateEmbeddingResponse, error)
}

// Embedder produces embeddings with the OpenAI embeddings endpoint. The API has
// no query/document distinction, so the mode only shows up in logs.
type Embedder struct {
	embeddings embeddingCreator
	model      string
	logger     *zap.Logger
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

func NewEmbedder(cfg Config, logger *zap.Logger) (*Embedder, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// The ranker falls back instead of retrying.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)

	return newEmbedder(&client.Embeddings, cfg.Model, logger), nil
}

func newEmbedder(embeddings embeddingCreator, model string, logger *zap.Logger) *Embedder {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedder{embeddings: embeddings, model: model, logger: logger}
}

func (e *Embedder) Provider() string { return ProviderName }

func (e *Embedder) Model() string { return e.model }

func (e *Embedder) Embed(ctx context.Context, texts []string, mode embedding.Mode) ([][]float64, error) {
	if e == nil || e.embeddings == nil {
		return nil, errors.New("openai embedder is not initialized")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	e.logger.Debug("openai embeddings request",
		zap.String("mode", string(mode)),
		zap.Int("texts", len(texts)),
	)

	resp, err := e.embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, embedding.ErrEmptyResponse
	}

	// The API reports an index per vector; keep the request order.
	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	if err := embedding.CheckBatch(texts, vectors); err != nil {
		return nil, err
	}

	return vectors, nil
}
