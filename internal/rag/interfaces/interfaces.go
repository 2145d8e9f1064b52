package interfaces

import (
	"context"

	"sonmez-voice-agent/internal/rag/schema"
)

// Splitter is the interface for splitting documents into smaller chunks.
type Splitter interface {
	Split(ctx context.Context, docs []*schema.Document) ([]*schema.Document, error)
}

// VectorStore is the interface for storing and querying document vectors.
type VectorStore interface {
	// Upsert writes the chunks to the index. It is idempotent per owning
	// document id: re-ingesting a document replaces its previous chunks.
	Upsert(ctx context.Context, docs []*schema.Document) error

	// Query returns the topK nearest documents for the given embedding,
	// each carrying its original metadata and a similarity score.
	Query(ctx context.Context, embedding []float32, topK int) ([]*schema.Document, error)
}

// EmbeddingModel is the interface for a text embedding model.
type EmbeddingModel interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatMessage is one turn of a chat-completion request.
type ChatMessage struct {
	Role    string
	Content string
}

// LLM is the interface for a chat language model.
type LLM interface {
	Chat(ctx context.Context, messages []ChatMessage) (string, error)
}
