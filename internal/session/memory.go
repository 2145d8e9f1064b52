package session

import (
	"context"
	"sync"
)

// MemoryStore keeps session history in process memory. Sessions live for the
// life of the process; they are abandoned, not closed, when a call or chat
// ends.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]Turn
	maxTurns int
}

// NewMemoryStore creates an in-memory store capped at maxTurns per session.
func NewMemoryStore(maxTurns int) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]Turn),
		maxTurns: maxTurns,
	}
}

// History returns a copy of the session's turns.
func (s *MemoryStore) History(_ context.Context, sessionID string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.sessions[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Append adds the turns under the store lock, so a (user, assistant) pair is
// written as one unit even when duplicate telephony retries race on the same
// session.
func (s *MemoryStore) Append(_ context.Context, sessionID string, turns ...Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.sessions[sessionID], turns...)
	if s.maxTurns > 0 && len(history) > s.maxTurns {
		history = history[len(history)-s.maxTurns:]
	}
	s.sessions[sessionID] = history
	return nil
}

// Evict drops a session's history.
func (s *MemoryStore) Evict(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

var _ Store = (*MemoryStore)(nil)
