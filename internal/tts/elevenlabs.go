package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sonmez-voice-agent/internal/config"
	"sonmez-voice-agent/pkg/logger"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// Client synthesizes speech through the ElevenLabs API. Rate-limit responses
// are retried with exponential backoff; every other failure is final on the
// first occurrence.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	voiceID    string
	modelID    string
	stability  float64
	similarity float64
	maxRetries int
	baseDelay  time.Duration
	log        *logger.Logger
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// NewClient creates an ElevenLabs client from config.
func NewClient(cfg config.ElevenLabsConfig, log *logger.Logger) *Client {
	baseDelay, err := time.ParseDuration(cfg.BaseDelay)
	if err != nil {
		baseDelay = 2 * time.Second
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		apiKey:     cfg.APIKey,
		voiceID:    cfg.VoiceID,
		modelID:    cfg.ModelID,
		stability:  cfg.Stability,
		similarity: cfg.SimilarityBoost,
		maxRetries: cfg.MaxRetries,
		baseDelay:  baseDelay,
		log:        log,
	}
}

// Synthesize converts text to audio bytes. On HTTP 429 it retries up to
// maxRetries times, doubling the delay each time. Any other HTTP error or a
// transport error fails immediately. The returned error is a recoverable
// condition: callers fall back to a text-only response instead of
// propagating it.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: c.modelID,
		VoiceSettings: voiceSettings{
			Stability:       c.stability,
			SimilarityBoost: c.similarity,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, c.voiceID)
	delay := c.baseDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to build synthesis request: %w", err)
		}
		req.Header.Set("xi-api-key", c.apiKey)
		req.Header.Set("Accept", "audio/mpeg")
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("synthesis request failed: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			audio, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to read audio response: %w", err)
			}
			return audio, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			if attempt == c.maxRetries {
				return nil, fmt.Errorf("synthesis rate limited after %d retries", c.maxRetries)
			}
			c.log.Warn(fmt.Sprintf("TTS rate limit exceeded, waiting %s before retry %d/%d", delay, attempt+1, c.maxRetries))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2

		default:
			resp.Body.Close()
			return nil, fmt.Errorf("synthesis failed with status %d", resp.StatusCode)
		}
	}

	return nil, fmt.Errorf("synthesis rate limited after %d retries", c.maxRetries)
}
