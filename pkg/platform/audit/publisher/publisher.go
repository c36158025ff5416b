// Package publisher delivers audit events to a store, synchronously by
// default or through a bounded async buffer.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"campushire/pkg/platform/audit"
)

// Publisher writes audit events to a Store. With an async buffer configured,
// Emit never blocks the request path; when the buffer is full the event is
// dropped and counted rather than stalling admissions.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	events chan audit.Event
	done   chan struct{}
	once   sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer enables async delivery with the given buffer size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.events = make(chan audit.Event, size)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, done: make(chan struct{})}
	for _, opt := range opts {
		opt(p)
	}
	if p.events != nil {
		go p.drain()
	}
	return p
}

// Emit delivers an event. Timestamps are stamped here so emitters stay free
// of clock plumbing.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.events == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.events <- event:
		return nil
	default:
		if p.logger != nil {
			p.logger.Warn("audit buffer full, dropping event", "action", event.Action)
		}
		return nil
	}
}

func (p *Publisher) drain() {
	for event := range p.events {
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to append audit event", "action", event.Action, "error", err)
		}
	}
	close(p.done)
}

// Close drains any buffered events before returning.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.events == nil {
			return
		}
		close(p.events)
		<-p.done
	})
}
