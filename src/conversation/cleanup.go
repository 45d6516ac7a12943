package conversation

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultCleanupInterval is how often idle sessions are swept.
const DefaultCleanupInterval = time.Minute

// CleanupService periodically evicts sessions idle longer than a TTL.
type CleanupService struct {
	store    *Store
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewCleanupService creates a cleanup service. A non-positive interval falls
// back to DefaultCleanupInterval.
func NewCleanupService(store *Store, ttl, interval time.Duration, logger *slog.Logger) *CleanupService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanupService{
		store:    store,
		ttl:      ttl,
		interval: interval,
		logger:   logger.With("component", "conversation_cleanup"),
	}
}

// Start launches the sweep loop. It is a no-op when already running or when
// the TTL is disabled.
func (c *CleanupService) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running || c.ttl <= 0 {
		return
	}

	cleanupCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	go c.run(cleanupCtx, c.done)
}

// Stop cancels the loop and waits for it to exit.
func (c *CleanupService) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	cancel()
	<-done
}

// IsRunning reports whether the sweep loop is active.
func (c *CleanupService) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *CleanupService) run(ctx context.Context, done chan struct{}) {
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("cleanup stopping")
			return
		case <-ticker.C:
			removed := c.store.EvictIdle(c.ttl)
			stats := c.store.Stats()
			c.logger.Debug("cleanup sweep",
				"removed", removed,
				"sessions", stats["sessions"],
				"messages", stats["messages"])
		}
	}
}
