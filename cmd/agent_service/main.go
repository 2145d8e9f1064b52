package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"sonmez-voice-agent/internal/assistant"
	"sonmez-voice-agent/internal/audio"
	"sonmez-voice-agent/internal/catalog"
	"sonmez-voice-agent/internal/config"
	"sonmez-voice-agent/internal/embedding"
	"sonmez-voice-agent/internal/llm"
	"sonmez-voice-agent/internal/matcher"
	"sonmez-voice-agent/internal/rag/pipeline"
	"sonmez-voice-agent/internal/rag/schema"
	"sonmez-voice-agent/internal/rag/vectorstore"
	"sonmez-voice-agent/internal/session"
	"sonmez-voice-agent/internal/tts"
	"sonmez-voice-agent/internal/webhook"
	"sonmez-voice-agent/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	// Secrets come from the environment; a .env file is a development convenience.
	_ = godotenv.Load()

	logger.Init(logrus.InfoLevel)
	log := logger.New("agent_service")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(fmt.Sprintf("Invalid config: %v", err))
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

	embedder := embedding.NewOpenAIModel(cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel)
	chatModel := llm.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel, cfg.OpenAI.Temperature, cfg.OpenAI.MaxTokens)
	retriever := pipeline.NewRetrievalPipeline(embedder, store, cfg.Retrieval.TopK, log)

	var sessions session.Store
	switch cfg.Sessions.Backend {
	case "redis":
		redisStore, err := session.NewRedisStore(ctx, cfg.Sessions.Redis, cfg.Sessions.MaxTurns)
		if err != nil {
			log.Fatal(fmt.Sprintf("Failed to connect to Redis: %v", err))
		}
		defer redisStore.Close()
		sessions = redisStore
	default:
		sessions = session.NewMemoryStore(cfg.Sessions.MaxTurns)
	}

	// The raw catalog backs the exact-match path; a missing file is skipped
	// the same way it is during ingestion.
	loader := catalog.NewLoader(log)
	cat, _ := loader.Load(catalogSources(cfg))

	composer := assistant.NewComposer(retriever, matcher.New(cat), chatModel, sessions, log)
	synthesizer := tts.NewClient(cfg.ElevenLabs, log)
	audioStore := audio.NewStore()

	handler := webhook.NewHandler(composer, synthesizer, audioStore, cfg.Server.PublicBaseURL, log)
	router := webhook.SetupRouter(handler)

	log.Info(fmt.Sprintf("Starting agent service on %s", cfg.Server.Address))
	if err := router.Run(cfg.Server.Address); err != nil {
		log.Fatal(fmt.Sprintf("Server stopped: %v", err))
	}
}

func catalogSources(cfg *config.AppConfig) []catalog.Source {
	sources := make([]catalog.Source, 0, len(cfg.Catalog.Sources))
	for _, src := range cfg.Catalog.Sources {
		sources = append(sources, catalog.Source{
			Path:     src.Path,
			Category: schema.Category(src.Category),
		})
	}
	return sources
}
