// Package events carries the dashboard change feed. Writes to watched tables
// publish a small JSON event on one Redis channel; the SSE endpoint fans the
// stream out to connected dashboards so they can refetch what changed.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Igsankya24/krishna-tech-solutions/internal/logger"
	"github.com/Igsankya24/krishna-tech-solutions/internal/metrics"
)

const Channel = "kts:changes"

// Operations carried by a change event.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// Entities the feed reports on. Values match the table names the dashboard
// subscribes to.
const (
	EntityAppointments = "appointments"
	EntityServices     = "services"
	EntityCoupons      = "coupons"
	EntitySettings     = "settings"
	EntityUsers        = "users"
)

type Event struct {
	Entity string    `json:"entity"`
	Op     string    `json:"op"`
	ID     string    `json:"id,omitempty"`
	At     time.Time `json:"at"`
}

// Publisher pushes change events onto the Redis channel. A Publisher built
// from a nil client is a no-op, so the API keeps working when Redis is not
// configured.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish sends one event. Failures are logged and swallowed; the feed is
// advisory and must never fail the write that triggered it.
func (p *Publisher) Publish(ctx context.Context, entity, op, id string) {
	if p == nil || p.client == nil {
		return
	}

	payload, err := json.Marshal(Event{
		Entity: entity,
		Op:     op,
		ID:     id,
		At:     time.Now().UTC(),
	})
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Str("entity", entity).Msg("change event marshal failed")
		return
	}

	if err := p.client.Publish(ctx, Channel, payload).Err(); err != nil {
		log := logger.Get()
		log.Error().Err(err).Str("entity", entity).Msg("change event publish failed")
		return
	}
	metrics.ChangeEventsPublishedTotal.WithLabelValues(entity).Inc()
}

// Subscriber delivers the feed to one consumer. Close the returned stop
// function to release the underlying Redis subscription.
type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe opens the channel and decodes incoming messages. The returned
// channel closes when ctx is done or the subscription drops.
func (s *Subscriber) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	if s == nil || s.client == nil {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}, nil
	}

	sub := s.client.Subscribe(ctx, Channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log := logger.Get()
				log.Warn().Err(err).Msg("change event decode failed")
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() { _ = sub.Close() }
	return out, stop, nil
}
