package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Handler processes a delivered event.
type Handler func(ctx context.Context, ev Event) error

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine. Handlers run to completion before Publish returns,
// which mirrors the single cooperative loop of an editor host.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	closed atomic.Bool

	published atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscription is a handle returned by Subscribe.
type Subscription struct {
	id       string
	pattern  Topic
	handler  Handler
	bus      *Bus
	canceled atomic.Bool
}

// ID returns the subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Pattern returns the topic pattern the subscription was created with.
func (s *Subscription) Pattern() Topic {
	return s.pattern
}

// Cancel removes the subscription from its bus. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s.canceled.Swap(true) {
		return
	}
	s.bus.remove(s.id)
}

// Subscribe registers handler for every topic matching pattern.
func (b *Bus) Subscribe(pattern Topic, handler Handler) (*Subscription, error) {
	if b.closed.Load() {
		return nil, ErrBusClosed
	}
	if !pattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	sub := &Subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: handler,
		bus:     b,
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return sub, nil
}

// Publish delivers ev to all matching subscriptions. Handler errors and
// panics do not stop delivery to the remaining handlers; they are joined
// into the returned error.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if b.closed.Load() {
		return ErrBusClosed
	}
	if !ev.Topic.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, ev.Topic)
	}
	b.published.Add(1)

	var errs []error
	for _, sub := range b.matching(ev.Topic) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := b.deliver(ctx, sub, ev); err != nil {
			b.failed.Add(1)
			errs = append(errs, &HandlerError{SubscriptionID: sub.id, Topic: ev.Topic, Err: err})
			continue
		}
		b.delivered.Add(1)
	}
	return errors.Join(errs...)
}

func (b *Bus) deliver(ctx context.Context, sub *Subscription, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return sub.handler(ctx, ev)
}

func (b *Bus) matching(t Topic) []*Subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*Subscription
	for _, sub := range b.subs {
		if !sub.canceled.Load() && t.Matches(sub.pattern) {
			out = append(out, sub)
		}
	}
	return out
}

func (b *Bus) remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Count returns the number of active subscriptions.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stats returns publish/deliver/failure counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Delivered: b.delivered.Load(),
		Failed:    b.failed.Load(),
	}
}

// Stats holds bus counters.
type Stats struct {
	Published uint64
	Delivered uint64
	Failed    uint64
}

// Close drops all subscriptions and rejects further use.
func (b *Bus) Close() {
	if b.closed.Swap(true) {
		return
	}
	b.mu.Lock()
	b.subs = nil
	b.mu.Unlock()
}

// Publisher adapts the bus to the map-payload publisher interface used by
// the terminal manager.
type Publisher struct {
	Bus    *Bus
	Source string
}

// Publish implements terminal.EventPublisher.
func (p Publisher) Publish(eventType string, data map[string]any) {
	if p.Bus == nil {
		return
	}
	_ = p.Bus.Publish(context.Background(), New(Topic(eventType), data, p.Source))
}
