package chat

import (
	"context"
	"sync"
)

// sessionLocks serializes turns per session id. Entries are reference
// counted and removed once nobody holds or waits on them.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{entries: make(map[string]*lockEntry)}
}

// Lock blocks until the session is free or ctx is done. The returned func
// releases the lock and must be called exactly once.
func (l *sessionLocks) Lock(ctx context.Context, sessionID string) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[sessionID]
	if !ok {
		e = &lockEntry{sem: make(chan struct{}, 1)}
		l.entries[sessionID] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		return func() {
			<-e.sem
			l.release(sessionID, e)
		}, nil
	case <-ctx.Done():
		l.release(sessionID, e)
		return nil, ctx.Err()
	}
}

func (l *sessionLocks) release(sessionID string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, sessionID)
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
