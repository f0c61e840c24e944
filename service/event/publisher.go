package event

import (
	"context"

	"github.com/viant/arbiter/internal/clock"
	"github.com/viant/arbiter/internal/idgen"
	"github.com/viant/arbiter/service/messaging"
)

// Publisher publishes pool events to a queue; a nil Publisher discards events
type Publisher struct {
	queue messaging.Queue[Event]
}

// Publish stamps and publishes an event
func (p *Publisher) Publish(ctx context.Context, event *Event) error {
	if p == nil || p.queue == nil || event == nil {
		return nil
	}
	if event.ID == "" {
		event.ID = idgen.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = clock.Now()
	}
	return p.queue.Publish(ctx, event)
}

// Consume returns the next event acknowledged, or nil when the queue has nothing to deliver
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

// NewPublisher creates a publisher
func NewPublisher(queue messaging.Queue[Event]) *Publisher {
	return &Publisher{queue: queue}
}
