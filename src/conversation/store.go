// Package conversation holds per-session message history in memory.
package conversation

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Options configures a Store.
type Options struct {
	// MaxTurns bounds each session to 2*MaxTurns messages.
	MaxTurns int
	// AppName and Model are stamped into exported snapshots.
	AppName string
	Model   string
	Logger  *slog.Logger
	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// Store maps session ids to ordered message histories.
type Store struct {
	sessions map[string]*session
	// pins counts turns in flight per session id; pinned sessions are never
	// evicted
	pins     map[string]int
	maxTurns int
	appName  string
	model    string
	logger   *slog.Logger
	now      func() time.Time
	mu       sync.RWMutex
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		sessions: make(map[string]*session),
		pins:     make(map[string]int),
		maxTurns: opts.MaxTurns,
		appName:  opts.AppName,
		model:    opts.Model,
		logger:   logger.With("component", "conversation_store"),
		now:      opts.Now,
	}
}

// MaxTurns returns the configured turn bound.
func (s *Store) MaxTurns() int {
	return s.maxTurns
}

// Append adds a message to the session, creating the session if needed, and
// drops the oldest messages once the history exceeds 2*MaxTurns.
func (s *Store) Append(sessionID string, role Role, content string) (Message, error) {
	if !role.Valid() {
		return Message{}, fmt.Errorf("invalid role %q", role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{id: sessionID, createdAt: now}
		s.sessions[sessionID] = sess
		s.logger.Debug("session created", "session_id", sessionID)
	}

	msg := Message{Role: role, Content: content, Timestamp: now}
	sess.messages = append(sess.messages, msg)
	sess.lastActivity = now

	if limit := 2 * s.maxTurns; len(sess.messages) > limit {
		dropped := len(sess.messages) - limit
		// Copy into a fresh slice so the backing array does not grow forever.
		trimmed := make([]Message, limit)
		copy(trimmed, sess.messages[dropped:])
		sess.messages = trimmed
		s.logger.Debug("session pruned", "session_id", sessionID, "dropped", dropped)
	}

	return msg, nil
}

// HistoryForPrompt splits a session into the priming history (every message
// but the last) and the active prompt (the last message's content).
func (s *Store) HistoryForPrompt(sessionID string) ([]Message, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok || len(sess.messages) == 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrEmptySession, sessionID)
	}

	last := len(sess.messages) - 1
	priming := make([]Message, last)
	copy(priming, sess.messages[:last])
	return priming, sess.messages[last].Content, nil
}

// History returns a copy of the session's messages, or nil if it does not exist.
func (s *Store) History(sessionID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	out := make([]Message, len(sess.messages))
	copy(out, sess.messages)
	return out
}

// Len returns the number of messages held for a session.
func (s *Store) Len(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[sessionID]; ok {
		return len(sess.messages)
	}
	return 0
}

// Exists reports whether the session is present.
func (s *Store) Exists(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[sessionID]
	return ok
}

// Reset deletes a session. Resetting an unknown session is a no-op.
func (s *Store) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; ok {
		delete(s.sessions, sessionID)
		s.logger.Debug("session reset", "session_id", sessionID)
	}
}

// Export returns a snapshot of the session. Unknown sessions export with an
// empty message list.
func (s *Store) Export(sessionID string) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		App:      s.appName,
		Model:    s.model,
		SavedAt:  s.now(),
		Messages: []SnapshotMessage{},
	}
	if sess, ok := s.sessions[sessionID]; ok {
		snap.Messages = make([]SnapshotMessage, 0, len(sess.messages))
		for _, m := range sess.messages {
			snap.Messages = append(snap.Messages, SnapshotMessage{Role: m.Role, Content: m.Content})
		}
	}
	return snap
}

// Pin keeps a session from being evicted until the returned func is called.
// The session need not exist yet.
func (s *Store) Pin(sessionID string) func() {
	s.mu.Lock()
	s.pins[sessionID]++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.pins[sessionID]--
			if s.pins[sessionID] <= 0 {
				delete(s.pins, sessionID)
			}
		})
	}
}

// EvictIdle removes unpinned sessions whose last activity is older than ttl
// and returns how many were removed.
func (s *Store) EvictIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.pins[id] > 0 {
			continue
		}
		if now.Sub(sess.lastActivity) > ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("evicted idle sessions", "count", removed, "ttl", ttl)
	}
	return removed
}

// Stats returns current session counts.
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := 0
	for _, sess := range s.sessions {
		messages += len(sess.messages)
	}
	return map[string]int{
		"sessions": len(s.sessions),
		"messages": messages,
	}
}
