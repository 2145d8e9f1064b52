package llm

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"sonmez-voice-agent/internal/rag/interfaces"
)

// OpenAI is a chat-completion client backed by the OpenAI API. Temperature
// and token limit are fixed at construction: answers should be factual and
// short, so the deployment runs gpt-4o-mini at temperature 0.2 with a
// 256-token budget.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAI creates an OpenAI chat client.
func NewOpenAI(apiKey, model string, temperature float32, maxTokens int) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	return &OpenAI{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Chat sends the messages to the chat-completion endpoint and returns the
// text of the first choice.
func (o *OpenAI) Chat(ctx context.Context, messages []interfaces.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: &o.temperature,
		MaxTokens:   o.maxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ interfaces.LLM = (*OpenAI)(nil)
