package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition applies a status change, stamping the cancellation actor and
// time when the new status is cancelled.
func Transition(ap *models.Appointment, next Status, actor *uuid.UUID, now time.Time) error {
	if err := AssertTransition(Status(ap.Status), next); err != nil {
		return err
	}

	ap.Status = string(next)
	if next == StatusCancelled {
		ap.CancelledBy = actor
		ap.CancelledAt = &now
	}
	return nil
}

// Reference derives the short public booking ID from an appointment
// identifier: the leading UUID segment, upper-cased.
func Reference(id uuid.UUID) string {
	s := id.String()
	if i := strings.IndexByte(s, '-'); i > 0 {
		s = s[:i]
	}
	return strings.ToUpper(s)
}
