package embeddings

import (
	"context"
	"fmt"
	"slices"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	maxBatchSize = 64
	// maxInputRunes keeps a single article summary well under the model's
	// input window.
	maxInputRunes = 8000
)

// OpenAIModel is an OpenAI embedding model identifier.
type OpenAIModel string

const (
	ModelTextEmbedding3Small OpenAIModel = "text-embedding-3-small"
	ModelTextEmbedding3Large OpenAIModel = "text-embedding-3-large"
)

// OpenAIEmbedder embeds through the OpenAI (or a compatible) embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  OpenAIModel
}

// NewOpenAIEmbedder creates an embedder. An empty baseURL targets the public API.
func NewOpenAIEmbedder(apiKey string, model OpenAIModel, baseURL string) *OpenAIEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = ModelTextEmbedding3Small
	}
	return &OpenAIEmbedder{client: openai.NewClientWithConfig(cfg), model: model}
}

func (e *OpenAIEmbedder) Name() string { return string(e.model) }

func (e *OpenAIEmbedder) Dimensions() int {
	if e.model == ModelTextEmbedding3Large {
		return 3072
	}
	return 1536
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	inputs := make([]string, len(texts))
	for i, t := range texts {
		inputs[i] = normalize(t)
	}

	out := make([][]float32, 0, len(texts))
	for batch := range slices.Chunk(inputs, maxBatchSize) {
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("embedding %d texts with %s: %w", len(batch), e.model, err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("embedding API returned %d vectors for %d texts", len(resp.Data), len(batch))
		}
		// Data is not guaranteed to arrive in input order.
		vectors := make([][]float32, len(batch))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(batch) {
				return nil, fmt.Errorf("embedding API returned out-of-range index %d", d.Index)
			}
			vectors[d.Index] = d.Embedding
		}
		out = append(out, vectors...)
	}
	return out, nil
}

// normalize flattens whitespace and caps length. Blank input becomes a single
// space because the API rejects empty strings.
func normalize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > maxInputRunes {
		text = string(r[:maxInputRunes])
	}
	if text == "" {
		return " "
	}
	return text
}
