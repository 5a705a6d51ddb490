package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/Igsankya24/krishna-tech-solutions/internal/audit"
	domain "github.com/Igsankya24/krishna-tech-solutions/internal/domain/booking"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/metrics"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
	"github.com/Igsankya24/krishna-tech-solutions/internal/timezone"
)

type TransitionAppointment struct {
	repo   domain.Repository
	audit  Auditor
	events Publisher
}

func NewTransitionAppointment(
	repo domain.Repository,
	auditor Auditor,
	publisher Publisher,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:   repo,
		audit:  auditor,
		events: publisher,
	}
}

// Execute moves one appointment through the status machine on behalf of an
// admin. Cancellations stamp the acting admin and the cancellation time.
func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	appointmentID uuid.UUID,
	next string,
	actorID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := timezone.Now()
	if err := domain.Transition(ap, domain.Status(next), &actorID, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	metrics.BookingStatusChangesTotal.WithLabelValues(ap.Status).Inc()

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			ActorID:  &actorID,
			Action:   "appointment_" + ap.Status,
			Entity:   "appointment",
			EntityID: ap.ID.String(),
		})
	}

	if uc.events != nil {
		uc.events.Publish(ctx, "appointments", "updated", ap.ID.String())
	}

	return ap, nil
}
