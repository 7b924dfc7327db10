package event

import "context"

// Notifier receives state-change and decision events for external fan-out.
// Implementations must not block the caller and must not report delivery
// failures back into the core; a mutation is never rolled back because a
// notification could not be delivered.
type Notifier interface {
	Publish(ctx context.Context, event *Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, event *Event)

// Publish calls f.
func (f NotifierFunc) Publish(ctx context.Context, event *Event) { f(ctx, event) }

type nop struct{}

func (nop) Publish(context.Context, *Event) {}

// Nop returns a Notifier that drops every event.
func Nop() Notifier { return nop{} }
