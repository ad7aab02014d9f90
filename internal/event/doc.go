// Package event provides the synchronous topic-based event bus that ties the
// tinkering components together.
//
// Topics are dot-separated strings. Subscriptions may use "*" to match a
// single segment and "**" to match any number of segments:
//
//	bus := event.NewBus()
//	sub, _ := bus.Subscribe("terminal.*", func(ctx context.Context, ev event.Event) error {
//	    log.Println(ev.Topic, ev.Payload)
//	    return nil
//	})
//	defer sub.Cancel()
//
//	bus.Publish(ctx, event.New(event.TopicTerminalCreated, nil, "terminal"))
//
// Delivery is synchronous: Publish returns after every matching handler has
// run. Handler panics are recovered and reported as ErrHandlerPanic.
package event
