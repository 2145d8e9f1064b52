// Package session keeps per-conversation message history, keyed by the call
// identifier or sender address of the channel the turn arrived on. An unknown
// session id is a new session with empty history, never an error.
package session

import "context"

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store is the conversation history backend. Append must be atomic for the
// turn pair: concurrent turns for the same session may interleave between
// calls, but a (user, assistant) pair is never split by another writer.
type Store interface {
	// History returns the turns of the session in order, oldest first.
	History(ctx context.Context, sessionID string) ([]Turn, error)

	// Append adds turns to the end of the session history, creating the
	// session if needed, and prunes the oldest turns beyond the configured
	// cap.
	Append(ctx context.Context, sessionID string, turns ...Turn) error
}
