package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single notification delivered through the Bus.
type Event struct {
	// Topic is the hierarchical event type (e.g., "editor.active.changed").
	Topic Topic

	// Payload contains the event-specific data.
	Payload any

	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// New creates an event with a fresh ID and timestamp.
func New(t Topic, payload any, source string) Event {
	return Event{
		Topic:     t,
		Payload:   payload,
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Source:    source,
	}
}

// Well-known topics.
const (
	// TopicActiveEditorChanged fires whenever the focused document changes,
	// including to "no document". Payload: *tinkering.Document (may be nil).
	TopicActiveEditorChanged Topic = "editor.active.changed"

	// TopicContextChanged fires when a UI context flag changes. Payload: ContextChange.
	TopicContextChanged Topic = "ui.context.changed"

	// TopicConfigChanged fires after configuration has been reloaded.
	TopicConfigChanged Topic = "config.changed"

	// TopicNotification carries user-visible messages. Payload: Notification.
	TopicNotification Topic = "ui.notification"

	// Terminal lifecycle topics. Payload: map[string]any with id and name.
	TopicTerminalCreated Topic = "terminal.created"
	TopicTerminalClosed  Topic = "terminal.closed"
	TopicTerminalShown   Topic = "terminal.shown"

	// TopicTerminalOutput carries raw PTY output. Payload: []byte.
	TopicTerminalOutput Topic = "terminal.output"
)

// ContextChange is the payload of TopicContextChanged.
type ContextChange struct {
	Key   string
	Value bool
}

// Notification is the payload of TopicNotification.
type Notification struct {
	Level   string
	Message string
}
