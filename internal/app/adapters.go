package app

import (
	"context"
	"sync"

	"github.com/dshills/tinkering/internal/config"
	"github.com/dshills/tinkering/internal/event"
	"github.com/dshills/tinkering/internal/integration/terminal"
	"github.com/dshills/tinkering/internal/tinkering"
)

// Opener shows a document to the user, for example in $EDITOR.
type Opener func(ctx context.Context, path string) error

// busUI implements tinkering.UI by recording context flags and publishing
// every change and message on the event bus.
type busUI struct {
	bus    *event.Bus
	log    *Logger
	editor *activeEditor
	opener Opener

	mu    sync.RWMutex
	flags map[string]bool
}

func newBusUI(bus *event.Bus, log *Logger, editor *activeEditor, opener Opener) *busUI {
	return &busUI{
		bus:    bus,
		log:    log,
		editor: editor,
		opener: opener,
		flags:  make(map[string]bool),
	}
}

func (u *busUI) SetContext(key string, value bool) {
	u.mu.Lock()
	u.flags[key] = value
	u.mu.Unlock()

	u.log.Debug("context %s=%t", key, value)
	u.publish(event.TopicContextChanged, event.ContextChange{Key: key, Value: value})
}

// ShowError publishes message as an error notification. Front ends print
// notifications themselves, so the log only records it at debug level.
func (u *busUI) ShowError(message string) {
	u.log.Debug("error shown: %s", message)
	u.publish(event.TopicNotification, event.Notification{Level: "error", Message: message})
}

// notify publishes an informational message.
func (u *busUI) notify(message string) {
	u.log.Info("%s", message)
	u.publish(event.TopicNotification, event.Notification{Level: "info", Message: message})
}

func (u *busUI) OpenDocument(ctx context.Context, path string) error {
	u.editor.SetActive(ctx, tinkering.NewDocument(path))
	if u.opener != nil {
		return u.opener(ctx, path)
	}
	return nil
}

// context returns the last value published for key.
func (u *busUI) context(key string) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.flags[key]
}

func (u *busUI) publish(topic event.Topic, payload any) {
	if err := u.bus.Publish(context.Background(), event.New(topic, payload, "ui")); err != nil {
		u.log.WithField("topic", topic).Error("publish: %v", err)
	}
}

// activeEditor tracks the focused document. Documents live on disk, so
// Save has nothing to flush.
type activeEditor struct {
	bus *event.Bus
	log *Logger

	mu  sync.RWMutex
	doc *tinkering.Document
}

func (e *activeEditor) ActiveDocument() *tinkering.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc
}

func (e *activeEditor) Save(ctx context.Context, _ *tinkering.Document) error {
	return ctx.Err()
}

// SetActive focuses doc (nil clears focus) and publishes
// TopicActiveEditorChanged.
func (e *activeEditor) SetActive(ctx context.Context, doc *tinkering.Document) {
	e.mu.Lock()
	e.doc = doc
	e.mu.Unlock()

	if err := e.bus.Publish(ctx, event.New(event.TopicActiveEditorChanged, doc, "editor")); err != nil {
		e.log.WithField("topic", event.TopicActiveEditorChanged).Error("publish: %v", err)
	}
}

// terminalHost hands out terminal sessions, starting new ones with the
// currently configured shell.
type terminalHost struct {
	manager *terminal.Manager
	config  *config.Config
}

func (h *terminalHost) Acquire(name string) (tinkering.Session, error) {
	if t, ok := h.manager.FindByName(name); ok {
		return t, nil
	}
	t, err := h.manager.Create(terminal.Options{Name: name, Shell: h.config.Shell()})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// luaHost exposes the application to init scripts.
type luaHost struct {
	app *Application
}

func (h luaHost) Bind(key, command string) error {
	if !IsPseudoCommand(command) && !h.app.commands.Has(command) {
		return NewOperationError("map", key, ErrUnknownCommand).WithContext(command)
	}
	return h.app.keymap.Bind(key, command)
}

func (h luaHost) Notify(message string) {
	h.app.ui.notify(message)
}

func (h luaHost) Execute(command string) error {
	return h.app.Execute(context.Background(), command)
}
