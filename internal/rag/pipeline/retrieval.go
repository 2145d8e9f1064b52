package pipeline

import (
	"context"
	"fmt"

	"sonmez-voice-agent/internal/rag/interfaces"
	"sonmez-voice-agent/internal/rag/schema"
	"sonmez-voice-agent/pkg/logger"
)

// RetrievalPipeline embeds a query and returns the nearest documents.
type RetrievalPipeline struct {
	embedder    interfaces.EmbeddingModel
	vectorStore interfaces.VectorStore
	topK        int
	log         *logger.Logger
}

// NewRetrievalPipeline creates a RetrievalPipeline. topK is tunable per
// deployment; recall-sensitive enumeration questions benefit from a larger
// value since the underlying search is approximate, not exhaustive.
func NewRetrievalPipeline(
	embedder interfaces.EmbeddingModel,
	vectorStore interfaces.VectorStore,
	topK int,
	log *logger.Logger,
) *RetrievalPipeline {
	return &RetrievalPipeline{
		embedder:    embedder,
		vectorStore: vectorStore,
		topK:        topK,
		log:         log,
	}
}

// Run retrieves the topK nearest documents for the query. Any embedding or
// index failure propagates as a retrieval error; callers are expected to
// treat an empty result as valid prompt input rather than a hard failure.
func (p *RetrievalPipeline) Run(ctx context.Context, query string) ([]*schema.Document, error) {
	embeddings, err := p.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding model returned no vector for query")
	}

	docs, err := p.vectorStore.Query(ctx, embeddings[0], p.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}

	p.log.Debug(fmt.Sprintf("Retrieved %d document candidates for query", len(docs)))
	return docs, nil
}
