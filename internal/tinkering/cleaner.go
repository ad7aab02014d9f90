package tinkering

import (
	"os"
	"sync"
	"time"
)

// DefaultCleanupDelay is how long a temporary script survives after a run.
const DefaultCleanupDelay = 10 * time.Second

// Cleaner removes files after a delay. Pending removals are keyed by path:
// scheduling a path again re-arms its timer instead of adding a second one,
// so a stale timer from an earlier run cannot delete the file of a newer run.
// Removal errors are ignored.
type Cleaner struct {
	mu      sync.Mutex
	pending map[string]*time.Timer
	remove  func(string) error
	closed  bool
}

// NewCleaner creates a Cleaner that removes files with os.Remove.
func NewCleaner() *Cleaner {
	return &Cleaner{
		pending: make(map[string]*time.Timer),
		remove:  os.Remove,
	}
}

// Schedule arranges for path to be removed after delay. It is a no-op once
// the Cleaner is closed.
func (c *Cleaner) Schedule(path string, delay time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if t, ok := c.pending[path]; ok {
		t.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		if c.pending[path] != timer {
			c.mu.Unlock()
			return
		}
		delete(c.pending, path)
		c.mu.Unlock()

		_ = c.remove(path)
	})
	c.pending[path] = timer
}

// Cancel drops the pending removal of path. It reports whether one existed.
func (c *Cleaner) Cancel(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.pending[path]
	if !ok {
		return false
	}
	t.Stop()
	delete(c.pending, path)
	return true
}

// Pending returns the number of scheduled removals.
func (c *Cleaner) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Close cancels every pending removal. The files are left in place.
func (c *Cleaner) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for path, t := range c.pending {
		t.Stop()
		delete(c.pending, path)
	}
}
