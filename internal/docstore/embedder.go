package docstore

import (
	"context"

	"wireup/internal/openai"
)

// OpenAIEmbedder satisfies Embedder using the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder wraps an OpenAI client as an Embedder. An empty
// model selects the client's default embedding model.
func NewOpenAIEmbedder(client *openai.Client, model string) *OpenAIEmbedder {
	return &OpenAIEmbedder{client: client, model: model}
}

// Embed implements Embedder.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return e.client.Embedding(ctx, e.model, text)
}
