package notifications

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sendTimeout = 30 * time.Second

// Dispatcher decouples push delivery from the request path: callers
// enqueue messages and a single worker drains the queue against the
// gateway. Delivery failures are logged and never propagated; a full
// queue drops the message rather than blocking the caller.
type Dispatcher struct {
	gateway Gateway
	logger  *slog.Logger
	queue   chan Message

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(gateway Gateway, logger *slog.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		gateway: gateway,
		logger:  logger,
		queue:   make(chan Message, queueSize),
		done:    make(chan struct{}),
	}
}

// Run drains the queue until Close is called and the queue is empty.
// It is meant to be started once, as a goroutine, from main.
func (d *Dispatcher) Run() {
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.gateway.Send(ctx, msg); err != nil {
			d.logger.Error("push delivery failed",
				slog.Int("tokens", len(msg.Tokens)),
				slog.Any("error", err))
		}
		cancel()
	}
	close(d.done)
}

// Enqueue hands a message to the worker without blocking. Messages are
// dropped when the queue is full; push delivery is best-effort.
func (d *Dispatcher) Enqueue(msg Message) {
	if len(msg.Tokens) == 0 {
		return
	}
	select {
	case d.queue <- msg:
	default:
		d.logger.Warn("push queue full, dropping message",
			slog.Int("tokens", len(msg.Tokens)))
	}
}

// Close stops accepting messages and waits for the worker to finish
// whatever is already queued.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
