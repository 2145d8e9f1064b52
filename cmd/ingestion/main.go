// Command ingestion loads the catalog files, normalizes every item into a
// retrievable document, and writes the chunked embeddings to the vector
// index. Re-running it with unchanged content replaces the previous entries
// rather than duplicating them.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"sonmez-voice-agent/internal/catalog"
	"sonmez-voice-agent/internal/config"
	"sonmez-voice-agent/internal/embedding"
	"sonmez-voice-agent/internal/rag/pipeline"
	"sonmez-voice-agent/internal/rag/schema"
	"sonmez-voice-agent/internal/rag/splitters"
	"sonmez-voice-agent/internal/rag/vectorstore"
	"sonmez-voice-agent/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	_ = godotenv.Load()

	logger.Init(logrus.InfoLevel)
	log := logger.New("ingestion")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to load config: %v", err))
	}
	if cfg.OpenAI.APIKey == "" {
		log.Fatal(fmt.Sprintf("Missing OpenAI API key: environment variable %s is not set", cfg.OpenAI.APIKeyEnv))
	}
	if cfg.Milvus.Address == "" {
		log.Fatal("Milvus address is not configured")
	}

	ctx := context.Background()

	store, err := vectorstore.NewMilvusStore(ctx, cfg.Milvus.Address, cfg.Milvus.Collection, cfg.Milvus.VectorDim, log)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to connect to Milvus: %v", err))
	}
	defer store.Close()
	if err := store.EnsureCollection(ctx); err != nil {
		log.Fatal(fmt.Sprintf("Failed to prepare Milvus collection: %v", err))
	}

	loader := catalog.NewLoader(log)
	sources := make([]catalog.Source, 0, len(cfg.Catalog.Sources))
	for _, src := range cfg.Catalog.Sources {
		sources = append(sources, catalog.Source{
			Path:     src.Path,
			Category: schema.Category(src.Category),
		})
	}
	_, docs := loader.Load(sources)
	log.Info(fmt.Sprintf("Normalized %d documents from %d catalog sources", len(docs), len(sources)))

	splitter, err := splitters.NewCharSplitter(cfg.Retrieval.ChunkSize, cfg.Retrieval.ChunkOverlap)
	if err != nil {
		log.Fatal(fmt.Sprintf("Invalid chunking settings: %v", err))
	}

	embedder := embedding.NewOpenAIModel(cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel)
	indexer := pipeline.NewIndexingPipeline(splitter, embedder, store, log)

	chunks, err := indexer.Run(ctx, docs)
	if err != nil {
		log.Fatal(fmt.Sprintf("Ingestion failed: %v", err))
	}
	log.Info(fmt.Sprintf("Ingestion complete: %d chunks indexed into %s", chunks, cfg.Milvus.Collection))
}
