// Package notify delivers booking notifications to the business and the
// customer. Delivery is best effort: a successful reservation never waits on,
// and never fails because of, a provider call. The dispatcher mirrors the
// audit queue: buffered channel, single worker, drop when full.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/Igsankya24/krishna-tech-solutions/internal/logger"
	"github.com/Igsankya24/krishna-tech-solutions/internal/metrics"
)

// ErrNotConfigured marks a channel whose provider credentials are absent.
var ErrNotConfigured = errors.New("notify: channel not configured")

// Booking carries the reservation fields the notification templates need.
type Booking struct {
	Reference   string
	Name        string
	Email       string
	Phone       string
	Date        string
	Time        string
	ServiceType string
	Notes       string
}

// EmailResult reports which of the two messages went out.
type EmailResult struct {
	AdminSent    bool
	CustomerSent bool
}

type SMSResult struct {
	MessageSid string
}

type EmailSender interface {
	SendBookingEmails(ctx context.Context, b Booking) (EmailResult, error)
}

type SMSSender interface {
	SendBookingSMS(ctx context.Context, b Booking) (SMSResult, error)
}

const (
	deliverTimeout = 15 * time.Second
	queueSize      = 100
)

type Dispatcher struct {
	email EmailSender
	sms   SMSSender
	queue chan Booking
}

// NewDispatcher starts the delivery worker. Either sender may be nil; that
// channel is then counted as skipped.
func NewDispatcher(email EmailSender, sms SMSSender) *Dispatcher {
	d := &Dispatcher{
		email: email,
		sms:   sms,
		queue: make(chan Booking, queueSize),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for b := range d.queue {
		metrics.NotifyQueueDepth.Dec()
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		d.deliver(ctx, b)
		cancel()
	}
}

// deliver attempts every channel. A failure on one channel never prevents the
// attempt on the next.
func (d *Dispatcher) deliver(ctx context.Context, b Booking) {
	log := logger.Get().With().Str("booking", b.Reference).Logger()

	if d.email == nil {
		metrics.NotificationsTotal.WithLabelValues("email", "skipped").Inc()
	} else if res, err := d.email.SendBookingEmails(ctx, b); err != nil {
		result := "failed"
		if errors.Is(err, ErrNotConfigured) {
			result = "skipped"
		}
		metrics.NotificationsTotal.WithLabelValues("email", result).Inc()
		log.Warn().Err(err).Msg("booking email delivery failed")
	} else {
		metrics.NotificationsTotal.WithLabelValues("email", "sent").Inc()
		log.Info().
			Bool("admin", res.AdminSent).
			Bool("customer", res.CustomerSent).
			Msg("booking email delivered")
	}

	if d.sms == nil {
		metrics.NotificationsTotal.WithLabelValues("sms", "skipped").Inc()
	} else if res, err := d.sms.SendBookingSMS(ctx, b); err != nil {
		result := "failed"
		if errors.Is(err, ErrNotConfigured) {
			result = "skipped"
		}
		metrics.NotificationsTotal.WithLabelValues("sms", result).Inc()
		log.Warn().Err(err).Msg("booking sms delivery failed")
	} else {
		metrics.NotificationsTotal.WithLabelValues("sms", "sent").Inc()
		log.Info().Str("sid", res.MessageSid).Msg("booking sms delivered")
	}
}

// Dispatch enqueues a booking without blocking. When the queue is full the
// notification is dropped; the reservation itself has already committed.
func (d *Dispatcher) Dispatch(b Booking) {
	select {
	case d.queue <- b:
		metrics.NotifyQueueDepth.Inc()
	default:
		log := logger.Get()
		log.Warn().Str("booking", b.Reference).Msg("notify queue full, dropping")
	}
}
