package pipeline

import (
	"context"
	"fmt"

	"sonmez-voice-agent/internal/rag/interfaces"
	"sonmez-voice-agent/internal/rag/schema"
	"sonmez-voice-agent/pkg/logger"
)

// IndexingPipeline orchestrates splitting, embedding and upserting normalized
// catalog documents into the vector index.
type IndexingPipeline struct {
	splitter    interfaces.Splitter
	embedder    interfaces.EmbeddingModel
	vectorStore interfaces.VectorStore
	log         *logger.Logger
}

// NewIndexingPipeline creates an IndexingPipeline.
func NewIndexingPipeline(
	splitter interfaces.Splitter,
	embedder interfaces.EmbeddingModel,
	vectorStore interfaces.VectorStore,
	log *logger.Logger,
) *IndexingPipeline {
	return &IndexingPipeline{
		splitter:    splitter,
		embedder:    embedder,
		vectorStore: vectorStore,
		log:         log,
	}
}

// Run chunks the documents, embeds every chunk and upserts them. It returns
// the number of chunks written.
func (p *IndexingPipeline) Run(ctx context.Context, docs []*schema.Document) (int, error) {
	if len(docs) == 0 {
		p.log.Warn("Indexing called with no documents, nothing to do")
		return 0, nil
	}

	chunks, err := p.splitter.Split(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to split documents: %w", err)
	}
	p.log.Info(fmt.Sprintf("Split %d documents into %d chunks", len(docs), len(chunks)))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	embeddings, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	for i, chunk := range chunks {
		chunk.Embedding = embeddings[i]
	}

	if err := p.vectorStore.Upsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("failed to upsert chunks: %w", err)
	}

	p.log.Info(fmt.Sprintf("Indexed %d chunks", len(chunks)))
	return len(chunks), nil
}
