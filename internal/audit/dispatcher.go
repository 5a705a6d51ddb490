package audit

import (
	"github.com/google/uuid"

	"github.com/Igsankya24/krishna-tech-solutions/internal/logger"
)

type Event struct {
	ActorID  *uuid.UUID
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

type Dispatcher struct {
	logger *Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.ActorID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			log := logger.Get()
			log.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
	}
}

// Dispatch enqueues an event without blocking. When the queue is full the
// event is dropped; audit must never stall the request path.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		log := logger.Get()
		log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}
