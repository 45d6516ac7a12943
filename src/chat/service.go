// Package chat runs conversation turns: emergency screening, history
// bookkeeping and the model call.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/elee1766/medassist/src/conversation"
	"github.com/elee1766/medassist/src/provider"
	"github.com/elee1766/medassist/src/safety"
	"github.com/elee1766/medassist/src/snapshot"
)

// DefaultSessionID is used when a caller does not name a session.
const DefaultSessionID = "default"

var (
	// ErrEmptyMessage is returned for blank user input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrSnapshotsDisabled is returned by SaveSnapshot without a writer.
	ErrSnapshotsDisabled = errors.New("snapshot writer not configured")
)

// Sender sends a prompt with its priming history to a model.
type Sender interface {
	Send(ctx context.Context, priming []conversation.Message, prompt string) (string, error)
}

// Options holds the collaborators of a Service.
type Options struct {
	Screen    *safety.Screen
	Store     *conversation.Store
	Provider  Sender
	Snapshots *snapshot.Writer
	Logger    *slog.Logger
	Now       func() time.Time
}

// Service handles turns for many sessions. Turns on the same session are
// serialized; different sessions proceed in parallel.
type Service struct {
	screen    *safety.Screen
	store     *conversation.Store
	provider  Sender
	snapshots *snapshot.Writer
	locks     *sessionLocks
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a Service. Store and Provider are required.
func NewService(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, errors.New("chat: store is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("chat: provider is required")
	}
	if opts.Screen == nil {
		opts.Screen = safety.NewScreen()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		screen:    opts.Screen,
		store:     opts.Store,
		provider:  opts.Provider,
		snapshots: opts.Snapshots,
		locks:     newSessionLocks(),
		logger:    logger.With("component", "chat_service"),
		now:       opts.Now,
	}, nil
}

// HandleTurn processes one user message. Emergencies and provider failures
// are reported in the Reply; the returned error is reserved for invalid
// input, a cancelled context while waiting for the session, or store errors.
func (s *Service) HandleTurn(ctx context.Context, sessionID, text string) (*Reply, error) {
	sessionID = normalizeSessionID(sessionID)
	logger := s.logger.With("session_id", sessionID)

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	if phrase, ok := s.screen.Match(text); ok {
		logger.Warn("emergency detected", "phrase", phrase)
		return &Reply{
			Content:     safety.EmergencyMessage,
			IsEmergency: true,
			Timestamp:   s.now(),
		}, nil
	}

	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("waiting for session %s: %w", sessionID, err)
	}
	defer unlock()

	// Idle eviction must not drop the session while the model is answering
	unpin := s.store.Pin(sessionID)
	defer unpin()

	if _, err := s.store.Append(sessionID, conversation.RoleUser, text); err != nil {
		return nil, fmt.Errorf("failed to record user message: %w", err)
	}

	priming, prompt, err := s.store.HistoryForPrompt(sessionID)
	if err != nil {
		return nil, err
	}

	start := s.now()
	content, err := s.provider.Send(ctx, priming, prompt)
	if err != nil {
		perr := asProviderError(err)
		logger.Error("turn failed", "kind", perr.Kind, "attempts", perr.Attempts, "error", err)
		return &Reply{
			Content:   perr.UserMessage(),
			Error:     true,
			ErrorKind: perr.Kind,
			Timestamp: s.now(),
		}, nil
	}

	if _, err := s.store.Append(sessionID, conversation.RoleAssistant, content); err != nil {
		return nil, fmt.Errorf("failed to record assistant message: %w", err)
	}

	logger.Info("turn completed",
		"duration", s.now().Sub(start),
		"history", s.store.Len(sessionID))
	return &Reply{Content: content, Timestamp: s.now()}, nil
}

// Seed adds an assistant message to a session that has no history yet, such
// as a greeting. It reports whether the message was added.
func (s *Service) Seed(ctx context.Context, sessionID, content string) (bool, error) {
	sessionID = normalizeSessionID(sessionID)

	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return false, err
	}
	defer unlock()

	if s.store.Len(sessionID) > 0 {
		return false, nil
	}
	if _, err := s.store.Append(sessionID, conversation.RoleAssistant, content); err != nil {
		return false, err
	}
	return true, nil
}

// ResetSession forgets a session. Unknown sessions are ignored.
func (s *Service) ResetSession(sessionID string) {
	sessionID = normalizeSessionID(sessionID)
	s.store.Reset(sessionID)
	s.logger.Info("session reset", "session_id", sessionID)
}

// History returns a copy of a session's messages.
func (s *Service) History(sessionID string) []conversation.Message {
	return s.store.History(normalizeSessionID(sessionID))
}

// Export snapshots a session without modifying it.
func (s *Service) Export(sessionID string) conversation.Snapshot {
	return s.store.Export(normalizeSessionID(sessionID))
}

// SaveSnapshot exports a session and writes it to name. An empty name picks a
// file name derived from the session id and current time.
func (s *Service) SaveSnapshot(sessionID, name string) (string, error) {
	if s.snapshots == nil {
		return "", ErrSnapshotsDisabled
	}
	sessionID = normalizeSessionID(sessionID)
	if name == "" {
		name = snapshot.FileNameFor(sessionID, s.now())
	}
	return s.snapshots.Save(s.store.Export(sessionID), name)
}

func normalizeSessionID(id string) string {
	if id = strings.TrimSpace(id); id == "" {
		return DefaultSessionID
	}
	return id
}

func asProviderError(err error) *provider.Error {
	var perr *provider.Error
	if errors.As(err, &perr) {
		return perr
	}
	return &provider.Error{Kind: provider.KindUnknown, Err: err, Attempts: 1}
}
