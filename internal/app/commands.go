package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Command names.
const (
	CommandInit    = "tinkering.init"
	CommandRun     = "tinkering.run"
	CommandRefresh = "tinkering.refresh"
)

// CommandFunc implements a named command.
type CommandFunc func(ctx context.Context) error

// Commands is a registry of named commands shared by the CLI, the watcher
// keymap and Lua scripts.
type Commands struct {
	mu       sync.RWMutex
	handlers map[string]CommandFunc
}

// NewCommands creates an empty registry.
func NewCommands() *Commands {
	return &Commands{handlers: make(map[string]CommandFunc)}
}

// Register adds or replaces the command called name.
func (c *Commands) Register(name string, fn CommandFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[name] = fn
}

// Has reports whether name is registered.
func (c *Commands) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.handlers[name]
	return ok
}

// Names returns the registered command names in sorted order.
func (c *Commands) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.handlers))
	for name := range c.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the command called name.
func (c *Commands) Execute(ctx context.Context, name string) error {
	c.mu.RLock()
	fn, ok := c.handlers[name]
	c.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return fn(ctx)
}
