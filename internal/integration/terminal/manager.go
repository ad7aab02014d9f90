package terminal

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// EventPublisher publishes terminal events.
type EventPublisher interface {
	Publish(eventType string, data map[string]any)
}

// Manager owns the terminals of one host and tracks which one is in front.
type Manager struct {
	mu        sync.RWMutex
	terminals map[string]*Terminal
	order     []string
	activeID  string

	defaultShell string
	defaultCols  int
	defaultRows  int
	workDir      string

	eventBus EventPublisher
	onShow   func(t *Terminal)
	onOutput func(t *Terminal, data []byte)

	closed atomic.Bool
}

// ManagerConfig configures a terminal manager.
type ManagerConfig struct {
	// DefaultShell is the default shell (defaults to DefaultShell()).
	DefaultShell string

	// DefaultCols and DefaultRows set the default terminal size.
	DefaultCols int
	DefaultRows int

	// WorkDir is the working directory of new terminals.
	WorkDir string

	// EventBus for publishing terminal events.
	EventBus EventPublisher

	// OnShow is called when a terminal is brought to the foreground.
	OnShow func(t *Terminal)

	// OnOutput receives the output of every managed terminal.
	OnOutput func(t *Terminal, data []byte)
}

// NewManager creates a new terminal manager.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.DefaultShell == "" {
		cfg.DefaultShell = DefaultShell()
	}
	if cfg.DefaultCols <= 0 {
		cfg.DefaultCols = 80
	}
	if cfg.DefaultRows <= 0 {
		cfg.DefaultRows = 24
	}

	return &Manager{
		terminals:    make(map[string]*Terminal),
		defaultShell: cfg.DefaultShell,
		defaultCols:  cfg.DefaultCols,
		defaultRows:  cfg.DefaultRows,
		workDir:      cfg.WorkDir,
		eventBus:     cfg.EventBus,
		onShow:       cfg.OnShow,
		onOutput:     cfg.OnOutput,
	}
}

// Create starts a new terminal.
func (m *Manager) Create(opts Options) (*Terminal, error) {
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}

	if opts.Shell == "" {
		opts.Shell = m.defaultShell
	}
	if opts.Cols <= 0 {
		opts.Cols = m.defaultCols
	}
	if opts.Rows <= 0 {
		opts.Rows = m.defaultRows
	}
	if opts.WorkDir == "" {
		opts.WorkDir = m.workDir
	}

	id := uuid.NewString()
	userOutput := opts.OnOutput
	userClose := opts.OnClose

	// The callbacks only run once term.start has been called below.
	var term *Terminal
	opts.OnOutput = func(data []byte) {
		if userOutput != nil {
			userOutput(data)
		}
		if m.onOutput != nil {
			m.onOutput(term, data)
		}
	}
	opts.OnClose = func() {
		m.forget(id)
		m.publishEvent("terminal.closed", map[string]any{
			"id":       id,
			"name":     opts.Name,
			"exitCode": term.ExitCode(),
		})
		if userClose != nil {
			userClose()
		}
	}

	t, err := newTerminal(id, opts)
	if err != nil {
		return nil, err
	}
	term = t
	term.onShow = m.show

	m.mu.Lock()
	m.terminals[id] = term
	m.order = append(m.order, id)
	m.mu.Unlock()

	term.start()

	m.publishEvent("terminal.created", map[string]any{
		"id":   id,
		"name": term.name,
	})

	return term, nil
}

// Acquire returns the running terminal called name, creating it if none
// exists. Exited terminals are never reused.
func (m *Manager) Acquire(name string) (*Terminal, error) {
	if t, ok := m.FindByName(name); ok {
		return t, nil
	}
	return m.Create(Options{Name: name})
}

// Get returns a terminal by ID.
func (m *Manager) Get(id string) (*Terminal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.terminals[id]
	return t, ok
}

// FindByName returns the oldest running terminal with the given name.
func (m *Manager) FindByName(name string) (*Terminal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.order {
		t := m.terminals[id]
		if t != nil && t.Name() == name && t.IsRunning() {
			return t, true
		}
	}
	return nil, false
}

// Active returns the terminal most recently shown.
func (m *Manager) Active() (*Terminal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.terminals[m.activeID]
	return t, ok
}

// List returns all terminals in creation order.
func (m *Manager) List() []*Terminal {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Terminal, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.terminals[id])
	}
	return result
}

// Count returns the number of terminals.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.terminals)
}

// Close closes a terminal by ID.
func (m *Manager) Close(id string) error {
	t, ok := m.Get(id)
	if !ok {
		return ErrTerminalNotFound
	}
	return t.Close()
}

// Shutdown closes every terminal, waiting at most timeout for them to exit.
func (m *Manager) Shutdown(timeout time.Duration) {
	if m.closed.Swap(true) {
		return
	}

	terminals := m.List()
	if len(terminals) == 0 {
		return
	}

	done := make(chan struct{})
	go func() {
		for _, t := range terminals {
			t.Close()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}

func (m *Manager) show(t *Terminal) {
	m.mu.Lock()
	m.activeID = t.id
	m.mu.Unlock()

	m.publishEvent("terminal.shown", map[string]any{
		"id":   t.id,
		"name": t.Name(),
	})
	if m.onShow != nil {
		m.onShow(t)
	}
}

func (m *Manager) forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.terminals, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.activeID == id {
		m.activeID = ""
	}
}

func (m *Manager) publishEvent(eventType string, data map[string]any) {
	if m.eventBus != nil {
		data["timestamp"] = time.Now().UnixMilli()
		m.eventBus.Publish(eventType, data)
	}
}
