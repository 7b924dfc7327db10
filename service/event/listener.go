package event

import (
	"context"
	"errors"
	"sync"

	"github.com/viant/govflow/internal/log"
)

// Listener drains a Publisher and hands every event to handler. It is the
// hook external fan-out (sockets, queues) attaches to.
type Listener struct {
	publisher *Publisher
	handler   func(*Event)
	cancel    context.CancelFunc
	done      chan struct{}
	once      sync.Once
}

// NewListener creates a stopped listener.
func NewListener(publisher *Publisher, handler func(*Event)) *Listener {
	return &Listener{
		publisher: publisher,
		handler:   handler,
		done:      make(chan struct{}),
	}
}

// Start begins consuming in a background goroutine.
func (l *Listener) Start(ctx context.Context) {
	l.once.Do(func() {
		ctx, l.cancel = context.WithCancel(ctx)
		go l.run(ctx)
	})
}

func (l *Listener) run(ctx context.Context) {
	defer close(l.done)
	for {
		evt, err := l.publisher.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			log.GetLogger().WithError(err).Warn("error consuming event")
			continue
		}
		if evt == nil {
			continue
		}
		l.dispatch(evt)
	}
}

func (l *Listener) dispatch(evt *Event) {
	defer func() {
		if r := recover(); r != nil {
			log.GetLogger().WithField("workflowId", evt.WorkflowID).Errorf("event handler panic: %v", r)
		}
	}()
	l.handler(evt)
}

// Stop cancels consumption and waits for the goroutine to exit.
func (l *Listener) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
}
