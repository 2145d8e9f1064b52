package assistant

import (
	"context"
	"fmt"
	"strings"

	"sonmez-voice-agent/internal/rag/formatter"
	"sonmez-voice-agent/internal/rag/interfaces"
	"sonmez-voice-agent/internal/rag/schema"
	"sonmez-voice-agent/internal/session"
	"sonmez-voice-agent/pkg/logger"
)

// Fallback is the fixed clarification request substituted for an empty or
// failed model response. It is user-facing and must never be empty.
const Fallback = "I'm sorry, I didn't quite understand. Could you please say that again?"

// systemPrompt constrains the model to the supplied context. It covers the
// multi-product, greeting and no-hallucination behaviors in one instruction.
const systemPrompt = `You are a helpful and friendly product expert for Sönmez Outdoor.
Your task is to answer the user's question based *only* on the context provided.

- If the context contains details for multiple products, use that information to answer comparative or summary questions.
- If the user is just starting, greet them and ask how you can help.
- Report data exactly as it is written. Do not make up information.
- If the context does not contain the answer, politely say you don't have that information.`

// Retriever returns the documents relevant to a query.
type Retriever interface {
	Run(ctx context.Context, query string) ([]*schema.Document, error)
}

// Matcher returns catalog items the utterance names directly. It complements
// the approximate retriever for enumeration-style questions.
type Matcher interface {
	Match(input string) []*schema.Document
}

// Composer builds the prompt from retrieved context and conversation history,
// invokes the language model and maintains the session history.
type Composer struct {
	retriever Retriever
	matcher   Matcher
	llm       interfaces.LLM
	sessions  session.Store
	log       *logger.Logger
}

// NewComposer creates a Composer. matcher may be nil when no exact-match
// catalog is available.
func NewComposer(retriever Retriever, matcher Matcher, llm interfaces.LLM, sessions session.Store, log *logger.Logger) *Composer {
	return &Composer{
		retriever: retriever,
		matcher:   matcher,
		llm:       llm,
		sessions:  sessions,
		log:       log,
	}
}

// Answer handles one conversational turn. It never returns an empty string
// and never surfaces an error: every failure degrades to the fixed fallback
// so the channel adapter always has something to say. On success the (user,
// assistant) pair is appended to the session history as one unit.
func (c *Composer) Answer(ctx context.Context, sessionID, userInput string) string {
	log := c.log.WithSession(sessionID)

	history, err := c.sessions.History(ctx, sessionID)
	if err != nil {
		log.Warn(fmt.Sprintf("Failed to load session history, starting fresh: %v", err))
		history = nil
	}

	docs := c.collectContext(ctx, userInput, log)
	contextBlock := formatter.Format(docs)

	answer, err := c.llm.Chat(ctx, []interfaces.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildUserMessage(contextBlock, history, userInput)},
	})
	if err != nil {
		log.Error(fmt.Sprintf("Model call failed, answering with fallback: %v", err))
		answer = Fallback
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = Fallback
	}

	if err := c.sessions.Append(ctx, sessionID,
		session.Turn{Role: session.RoleUser, Content: userInput},
		session.Turn{Role: session.RoleAssistant, Content: answer},
	); err != nil {
		log.Error(fmt.Sprintf("Failed to append turn to session history: %v", err))
	}

	return answer
}

// collectContext merges exact catalog matches ahead of the retrieved
// documents; the formatter de-duplicates overlaps by owning item. A
// retrieval failure degrades to whatever the matcher found.
func (c *Composer) collectContext(ctx context.Context, userInput string, log *logger.Logger) []*schema.Document {
	var docs []*schema.Document
	if c.matcher != nil {
		docs = c.matcher.Match(userInput)
	}

	retrieved, err := c.retriever.Run(ctx, userInput)
	if err != nil {
		log.Warn(fmt.Sprintf("Retrieval failed, continuing without retrieved context: %v", err))
		return docs
	}
	return append(docs, retrieved...)
}

func buildUserMessage(contextBlock string, history []session.Turn, userInput string) string {
	var sb strings.Builder
	sb.WriteString("Context:\n")
	sb.WriteString(contextBlock)
	sb.WriteString("\n\nConversation History:\n")
	for _, turn := range history {
		fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
	}
	fmt.Fprintf(&sb, "\nUser Question: %s\n\nAnswer:", userInput)
	return sb.String()
}
