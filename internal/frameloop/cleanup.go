package frameloop

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

type cleanupEntry struct {
	name string
	fn   func() error
}

// Cleanup releases resources in reverse acquisition order.
type Cleanup struct {
	mu      sync.Mutex
	entries []cleanupEntry
	done    bool
	log     *slog.Logger
}

func NewCleanup(logger *slog.Logger) *Cleanup {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleanup{log: logger}
}

// Push registers fn to run before everything pushed earlier.
func (c *Cleanup) Push(name string, fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, cleanupEntry{name: name, fn: fn})
}

// PushFunc registers a release that cannot fail.
func (c *Cleanup) PushFunc(name string, fn func()) {
	c.Push(name, func() error {
		fn()
		return nil
	})
}

// Len is the number of pending releases.
func (c *Cleanup) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Run releases everything once, last pushed first. A failing release is
// logged and does not stop the ones after it.
func (c *Cleanup) Run() error {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return nil
	}
	c.done = true
	entries := c.entries
	c.entries = nil
	c.mu.Unlock()

	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if err := e.fn(); err != nil {
			c.log.Warn("cleanup failed", "resource", e.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", e.name, err))
			continue
		}
		c.log.Debug("released", "resource", e.name)
	}
	return errors.Join(errs...)
}
