package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP listen address and the externally reachable base
// URL used to build audio playback links in webhook responses.
type ServerConfig struct {
	Address       string `yaml:"address"`
	PublicBaseURL string `yaml:"publicBaseURL"`
}

// MilvusConfig holds the Milvus connection and collection settings.
type MilvusConfig struct {
	Address    string `yaml:"address"`
	Collection string `yaml:"collection"`
	VectorDim  int    `yaml:"vectorDim"`
}

// OpenAIConfig holds the chat and embedding model settings. The API key is
// resolved from the environment variable named by apiKeyEnv, never from the
// config file itself.
type OpenAIConfig struct {
	APIKeyEnv      string  `yaml:"apiKeyEnv"`
	ChatModel      string  `yaml:"chatModel"`
	EmbeddingModel string  `yaml:"embeddingModel"`
	Temperature    float32 `yaml:"temperature"`
	MaxTokens      int     `yaml:"maxTokens"`

	APIKey string `yaml:"-"`
}

// ElevenLabsConfig holds the speech synthesis settings. API key and voice id
// are resolved from the environment.
type ElevenLabsConfig struct {
	APIKeyEnv       string  `yaml:"apiKeyEnv"`
	VoiceIDEnv      string  `yaml:"voiceIDEnv"`
	ModelID         string  `yaml:"modelID"`
	Stability       float64 `yaml:"stability"`
	SimilarityBoost float64 `yaml:"similarityBoost"`
	MaxRetries      int     `yaml:"maxRetries"`
	BaseDelay       string  `yaml:"baseDelay"`
	Timeout         string  `yaml:"timeout"`

	APIKey  string `yaml:"-"`
	VoiceID string `yaml:"-"`
}

// RedisConfig holds the Redis connection settings for the session backend.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SessionConfig selects and configures the conversation history backend.
// Backend is "memory" or "redis".
type SessionConfig struct {
	Backend  string      `yaml:"backend"`
	MaxTurns int         `yaml:"maxTurns"`
	Redis    RedisConfig `yaml:"redis"`
}

// CatalogSource names one catalog file and the category of the items in it.
type CatalogSource struct {
	Path     string `yaml:"path"`
	Category string `yaml:"category"`
}

// CatalogConfig lists the catalog files to ingest and match against.
type CatalogConfig struct {
	Sources []CatalogSource `yaml:"sources"`
}

// RetrievalConfig tunes the similarity search.
type RetrievalConfig struct {
	TopK         int `yaml:"topK"`
	ChunkSize    int `yaml:"chunkSize"`
	ChunkOverlap int `yaml:"chunkOverlap"`
}

// AppConfig is the root configuration for the voice agent.
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Milvus     MilvusConfig     `yaml:"milvus"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	ElevenLabs ElevenLabsConfig `yaml:"elevenlabs"`
	Sessions   SessionConfig    `yaml:"sessions"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
}

// Load reads the yaml config at path, applies defaults, and resolves secrets
// from the environment.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.resolveEnv()

	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Milvus.Collection == "" {
		c.Milvus.Collection = "sonmez_products"
	}
	if c.Milvus.VectorDim == 0 {
		c.Milvus.VectorDim = 1536
	}
	if c.OpenAI.APIKeyEnv == "" {
		c.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if c.OpenAI.EmbeddingModel == "" {
		c.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if c.OpenAI.Temperature == 0 {
		c.OpenAI.Temperature = 0.2
	}
	if c.OpenAI.MaxTokens == 0 {
		c.OpenAI.MaxTokens = 256
	}
	if c.ElevenLabs.APIKeyEnv == "" {
		c.ElevenLabs.APIKeyEnv = "ELEVENLABS_API_KEY"
	}
	if c.ElevenLabs.VoiceIDEnv == "" {
		c.ElevenLabs.VoiceIDEnv = "ELEVENLABS_VOICE_ID"
	}
	if c.ElevenLabs.ModelID == "" {
		c.ElevenLabs.ModelID = "eleven_turbo_v2"
	}
	if c.ElevenLabs.Stability == 0 {
		c.ElevenLabs.Stability = 0.5
	}
	if c.ElevenLabs.SimilarityBoost == 0 {
		c.ElevenLabs.SimilarityBoost = 0.5
	}
	if c.ElevenLabs.MaxRetries == 0 {
		c.ElevenLabs.MaxRetries = 3
	}
	if c.ElevenLabs.BaseDelay == "" {
		c.ElevenLabs.BaseDelay = "2s"
	}
	if c.ElevenLabs.Timeout == "" {
		c.ElevenLabs.Timeout = "15s"
	}
	if c.Sessions.Backend == "" {
		c.Sessions.Backend = "memory"
	}
	if c.Sessions.MaxTurns == 0 {
		c.Sessions.MaxTurns = 40
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = 5
	}
	if c.Retrieval.ChunkSize == 0 {
		c.Retrieval.ChunkSize = 1000
	}
	if c.Retrieval.ChunkOverlap == 0 {
		c.Retrieval.ChunkOverlap = 200
	}
}

func (c *AppConfig) resolveEnv() {
	c.OpenAI.APIKey = os.Getenv(c.OpenAI.APIKeyEnv)
	c.ElevenLabs.APIKey = os.Getenv(c.ElevenLabs.APIKeyEnv)
	c.ElevenLabs.VoiceID = os.Getenv(c.ElevenLabs.VoiceIDEnv)
}

// Validate checks that all required settings and credentials are present.
// A failed validation is fatal at startup per the error handling design.
func (c *AppConfig) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("missing OpenAI API key: environment variable %s is not set", c.OpenAI.APIKeyEnv)
	}
	if c.ElevenLabs.APIKey == "" {
		return fmt.Errorf("missing ElevenLabs API key: environment variable %s is not set", c.ElevenLabs.APIKeyEnv)
	}
	if c.ElevenLabs.VoiceID == "" {
		return fmt.Errorf("missing ElevenLabs voice id: environment variable %s is not set", c.ElevenLabs.VoiceIDEnv)
	}
	if c.Milvus.Address == "" {
		return fmt.Errorf("milvus address is not configured")
	}
	if c.Server.PublicBaseURL == "" {
		return fmt.Errorf("server publicBaseURL is not configured")
	}
	if c.Sessions.Backend != "memory" && c.Sessions.Backend != "redis" {
		return fmt.Errorf("unknown session backend: %s", c.Sessions.Backend)
	}
	if _, err := time.ParseDuration(c.ElevenLabs.BaseDelay); err != nil {
		return fmt.Errorf("invalid elevenlabs baseDelay: %w", err)
	}
	if _, err := time.ParseDuration(c.ElevenLabs.Timeout); err != nil {
		return fmt.Errorf("invalid elevenlabs timeout: %w", err)
	}
	return nil
}
