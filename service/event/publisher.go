package event

import (
	"context"
	"sync/atomic"

	"github.com/viant/govflow/internal/log"
	"github.com/viant/govflow/service/messaging"
)

// Publisher is a queue-backed Notifier. Publish never blocks: when the
// queue refuses the event it is counted as dropped and logged.
type Publisher struct {
	queue   messaging.Queue[Event]
	dropped atomic.Int64
	onDrop  func(*Event)
}

// NewPublisher creates a publisher over queue. The queue should be
// configured as non-blocking.
func NewPublisher(queue messaging.Queue[Event]) *Publisher {
	return &Publisher{queue: queue}
}

// Publish enqueues event, best effort.
func (p *Publisher) Publish(ctx context.Context, event *Event) {
	if event == nil {
		return
	}
	// the caller's context may be cancelled right after the mutation commits;
	// delivery must not depend on it
	if err := p.queue.Publish(context.WithoutCancel(ctx), event); err != nil {
		p.dropped.Add(1)
		log.GetLogger().WithError(err).
			WithField("workflowId", event.WorkflowID).
			Warnf("dropped %s notification", event.Type)
		if p.onDrop != nil {
			p.onDrop(event)
		}
	}
}

// OnDrop registers a callback invoked for every refused event. It must be
// set before the publisher is shared.
func (p *Publisher) OnDrop(fn func(*Event)) {
	p.onDrop = fn
}

// Consume returns the next event, acknowledging it.
func (p *Publisher) Consume(ctx context.Context) (*Event, error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}

// Dropped returns the number of events that could not be enqueued.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

var _ Notifier = (*Publisher)(nil)
