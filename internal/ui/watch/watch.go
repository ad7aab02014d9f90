package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/tinkering/internal/app"
	"github.com/dshills/tinkering/internal/event"
	"github.com/dshills/tinkering/internal/integration/terminal"
	"github.com/dshills/tinkering/internal/project/watcher"
	"github.com/dshills/tinkering/internal/tinkering"
)

// Host is the part of the application the watcher drives.
type Host interface {
	Bus() *event.Bus
	Keymap() *app.Keymap
	Terminals() *terminal.Manager
	Execute(ctx context.Context, name string) error
	Layout() tinkering.Layout
	ActiveDocument() *tinkering.Document
	SetActiveDocument(ctx context.Context, path string)
	Visible() bool
}

// Styles used by the watcher.
var (
	StyleHeader = tcell.StyleDefault.Reverse(true)
	StyleLens   = tcell.StyleDefault.Reverse(true).Bold(true)
	StyleStatus = tcell.StyleDefault.Reverse(true)
	StyleError  = tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
	StyleFocus  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true)
)

// Option configures a UI.
type Option func(*UI)

// WithScrollback sets the number of output lines kept.
func WithScrollback(n int) Option {
	return func(u *UI) {
		u.pane = NewPane(n)
	}
}

// WithWatcherOptions passes options to the scratch directory watcher.
func WithWatcherOptions(opts ...watcher.Option) Option {
	return func(u *UI) {
		u.watchOpts = append(u.watchOpts, opts...)
	}
}

// UI is the full-screen watcher.
type UI struct {
	host      Host
	screen    tcell.Screen
	pane      *Pane
	watchOpts []watcher.Option

	// started is closed once the screen is initialized and first drawn.
	started chan struct{}

	mu      sync.Mutex
	message string
	isError bool
	focus   bool
}

// New creates a watcher drawing on screen. The screen is initialized by Run.
func New(host Host, screen tcell.Screen, opts ...Option) *UI {
	u := &UI{
		host:    host,
		screen:  screen,
		pane:    NewPane(DefaultScrollback),
		started: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Pane returns the terminal output pane.
func (u *UI) Pane() *Pane { return u.pane }

// Message returns the status line message.
func (u *UI) Message() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.message
}

// Focused reports whether keys are forwarded to the terminal.
func (u *UI) Focused() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.focus
}

// Run shows the watcher until a quit key is pressed or ctx is done.
func (u *UI) Run(ctx context.Context) error {
	if err := u.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer u.screen.Fini()

	subs, err := u.subscribe()
	defer func() {
		for _, s := range subs {
			s.Cancel()
		}
	}()
	if err != nil {
		return err
	}

	tr, err := startTracker(u.host, func(err error) { u.setMessage(err.Error(), true) }, u.watchOpts...)
	if err != nil {
		return fmt.Errorf("watch %s: %w", u.host.Layout().Dir, err)
	}
	defer func() { _ = tr.close() }()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			u.wake()
		case <-stop:
		}
	}()

	u.draw()
	close(u.started)
	for {
		ev := u.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			u.resizeTerminals()
			u.screen.Sync()
		case *tcell.EventKey:
			if u.handleKey(ctx, ev) {
				return nil
			}
		case *tcell.EventInterrupt:
			// Functions posted as interrupt data run on this goroutine
			// against the current frame.
			if fn, ok := ev.Data().(func()); ok {
				u.draw()
				fn()
				continue
			}
		}
		if ctx.Err() != nil {
			return nil
		}
		u.draw()
	}
}

func (u *UI) subscribe() ([]*event.Subscription, error) {
	bus := u.host.Bus()
	handlers := []struct {
		topic   event.Topic
		handler event.Handler
	}{
		{event.TopicTerminalOutput, func(_ context.Context, ev event.Event) error {
			if data, ok := ev.Payload.([]byte); ok {
				_, _ = u.pane.Write(data)
				u.wake()
			}
			return nil
		}},
		{event.TopicNotification, func(_ context.Context, ev event.Event) error {
			if n, ok := ev.Payload.(event.Notification); ok {
				u.setMessage(n.Message, n.Level == "error")
			}
			return nil
		}},
		{event.TopicTerminalCreated, func(_ context.Context, _ event.Event) error {
			u.resizeTerminals()
			return nil
		}},
		{event.TopicTerminalClosed, func(_ context.Context, _ event.Event) error {
			u.mu.Lock()
			u.focus = false
			u.mu.Unlock()
			u.wake()
			return nil
		}},
		{event.TopicContextChanged, u.redraw},
		{event.TopicActiveEditorChanged, u.redraw},
		{event.TopicConfigChanged, u.redraw},
	}

	var subs []*event.Subscription
	for _, h := range handlers {
		s, err := bus.Subscribe(h.topic, h.handler)
		if err != nil {
			return subs, err
		}
		subs = append(subs, s)
	}
	return subs, nil
}

func (u *UI) redraw(context.Context, event.Event) error {
	u.wake()
	return nil
}

// wake makes Run redraw from the event loop.
func (u *UI) wake() {
	_ = u.screen.PostEvent(tcell.NewEventInterrupt(nil)) // a full queue already redraws
}

func (u *UI) setMessage(msg string, isError bool) {
	u.mu.Lock()
	u.message = msg
	u.isError = isError
	u.mu.Unlock()
	u.wake()
}

// handleKey runs the command bound to ev. It reports whether to quit.
func (u *UI) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	name := KeyName(ev)
	command, bound := u.host.Keymap().Lookup(name)

	if u.Focused() && command != app.FocusCommand {
		u.forward(ev)
		return false
	}
	if !bound {
		return false
	}

	switch command {
	case app.QuitCommand:
		return true
	case app.FocusCommand:
		u.toggleFocus()
		return false
	}

	if err := u.host.Execute(ctx, command); err != nil {
		if !tinkering.IsUserError(err) {
			u.setMessage(err.Error(), true)
		}
		return false
	}
	if command == app.CommandRun {
		u.setMessage("Submitted to "+tinkering.TerminalName, false)
	}
	return false
}

func (u *UI) toggleFocus() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.focus {
		u.focus = false
		return
	}
	if _, ok := u.host.Terminals().FindByName(tinkering.TerminalName); !ok {
		u.message = "No terminal is running."
		u.isError = true
		return
	}
	u.focus = true
}

func (u *UI) forward(ev *tcell.EventKey) {
	t, ok := u.host.Terminals().FindByName(tinkering.TerminalName)
	if !ok {
		return
	}
	if data := KeyBytes(ev); data != nil {
		if _, err := t.Write(data); err != nil && !errors.Is(err, terminal.ErrTerminalClosed) {
			u.setMessage(err.Error(), true)
		}
	}
}

// paneSize returns the size of the output region.
func (u *UI) paneSize() (cols, rows int) {
	w, h := u.screen.Size()
	return w, max(h-2, 1)
}

func (u *UI) resizeTerminals() {
	cols, rows := u.paneSize()
	for _, t := range u.host.Terminals().List() {
		_ = t.Resize(cols, rows) // exited terminals cannot be resized
	}
}

func (u *UI) draw() {
	s := u.screen
	s.Clear()
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	u.drawHeader(w)
	_, rows := u.paneSize()
	for i, line := range u.pane.Tail(rows) {
		drawText(s, 0, 1+i, w, tcell.StyleDefault, line)
	}
	if h > 1 {
		u.drawStatus(w, h-1)
	}
	s.Show()
}

func (u *UI) drawHeader(w int) {
	fill(u.screen, 0, w, StyleHeader)
	if u.host.Visible() {
		title := "▶ " + tinkering.RunLensTitle
		if keys := u.host.Keymap().KeysFor(app.CommandRun); len(keys) > 0 {
			title += " (" + strings.Join(keys, ", ") + ")"
		}
		drawText(u.screen, 1, 0, w-1, StyleLens, title)
		return
	}
	drawText(u.screen, 1, 0, w-1, StyleHeader, "tinkering "+u.host.Layout().Root)
}

func (u *UI) drawStatus(w, y int) {
	u.mu.Lock()
	msg, isError, focus := u.message, u.isError, u.focus
	u.mu.Unlock()

	fill(u.screen, y, w, StyleStatus)
	x := 1
	if focus {
		x += drawText(u.screen, x, y, w-x, StyleFocus, "TERMINAL") + 1
	}
	x += drawText(u.screen, x, y, w-x, StyleStatus, u.documentLabel()) + 2

	style := StyleStatus
	if isError {
		style = StyleError
	}
	drawText(u.screen, x, y, w-x, style, msg)
}

func (u *UI) documentLabel() string {
	doc := u.host.ActiveDocument()
	if doc == nil {
		return "[no file]"
	}
	if rel, err := filepath.Rel(u.host.Layout().Root, doc.Path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return doc.Path
}

func fill(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// drawText writes text at (x, y) clipped to width cells and returns the
// number of cells used.
func drawText(s tcell.Screen, x, y, width int, style tcell.Style, text string) int {
	used := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if used+rw > width {
			break
		}
		s.SetContent(x+used, y, r, nil, style)
		used += rw
	}
	return used
}
