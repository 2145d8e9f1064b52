package embedding

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"sonmez-voice-agent/internal/rag/interfaces"
)

// OpenAIModel is an embedding client backed by the OpenAI API.
type OpenAIModel struct {
	client *openai.Client
	model  string
}

// NewOpenAIModel creates an OpenAI embedding client for the given model
// (the deployment uses text-embedding-3-small).
func NewOpenAIModel(apiKey, model string) *OpenAIModel {
	config := openai.DefaultConfig(apiKey)
	return &OpenAIModel{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Embed generates embedding vectors for a batch of texts.
func (m *OpenAIModel) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	req := openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(m.model),
	}

	resp, err := m.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		embeddings[i] = d.Embedding
	}
	return embeddings, nil
}

var _ interfaces.EmbeddingModel = (*OpenAIModel)(nil)
