package booking

import (
	"context"
	"strings"
	"time"

	"github.com/Igsankya24/krishna-tech-solutions/internal/audit"
	domain "github.com/Igsankya24/krishna-tech-solutions/internal/domain/booking"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/metrics"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
	"github.com/Igsankya24/krishna-tech-solutions/internal/notify"
	"github.com/Igsankya24/krishna-tech-solutions/internal/storage"
	"github.com/Igsankya24/krishna-tech-solutions/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ReserveSlotInput struct {
	Date string
	Time string

	Name  string
	Email string
	Phone string

	ServiceType string
	Notes       string
}

// ======================================================
// USE CASE
// ======================================================

// Notifier and Publisher are satisfied by notify.Dispatcher and
// events.Publisher. Side channels are optional; nil means off.
type Notifier interface {
	Dispatch(b notify.Booking)
}

type Publisher interface {
	Publish(ctx context.Context, entity, op, id string)
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

type ReserveSlot struct {
	repo   domain.Repository
	audit  Auditor
	notify Notifier
	events Publisher
}

func NewReserveSlot(
	repo domain.Repository,
	auditor Auditor,
	notifier Notifier,
	publisher Publisher,
) *ReserveSlot {
	return &ReserveSlot{
		repo:   repo,
		audit:  auditor,
		notify: notifier,
		events: publisher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute performs the one atomic write of the public flow. The insert is the
// sole guard against double booking: no pre-check, no lock. A unique-index
// violation surfaces as the slot_taken business error.
func (uc *ReserveSlot) Execute(
	ctx context.Context,
	in ReserveSlotInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Required fields
	// --------------------------------------------------
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" {
		return nil, httperr.ErrBusiness("missing_fields")
	}

	// --------------------------------------------------
	// 2. Date / time in the business timezone
	// --------------------------------------------------
	loc := timezone.Location(timezone.DefaultTimezone)

	date, err := domain.ParseDate(in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if !domain.IsBookableTime(in.Time) {
		return nil, httperr.ErrBusiness("invalid_time")
	}
	if !domain.IsOpenOn(date) {
		return nil, httperr.ErrBusiness("closed_day")
	}

	// --------------------------------------------------
	// 3. No bookings for days already gone
	// --------------------------------------------------
	now := timezone.NowIn(timezone.DefaultTimezone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if date.Before(today) {
		return nil, httperr.ErrBusiness("past_date")
	}

	// --------------------------------------------------
	// 4. Atomic insert, constraint as the only guard
	// --------------------------------------------------
	ap := &models.Appointment{
		AppointmentDate: date,
		AppointmentTime: in.Time,
		UserName:        in.Name,
		UserEmail:       in.Email,
		UserPhone:       strings.TrimSpace(in.Phone),
		ServiceType:     strings.TrimSpace(in.ServiceType),
		Notes:           strings.TrimSpace(in.Notes),
		Status:          string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if storage.IsUniqueViolation(err) {
			metrics.BookingConflictsTotal.Inc()
			return nil, httperr.ErrBusiness("slot_taken")
		}
		return nil, err
	}

	metrics.BookingsCreatedTotal.Inc()

	// --------------------------------------------------
	// 5. Advisory side effects, never blocking
	// --------------------------------------------------
	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			Action:   "booking_created",
			Entity:   "appointment",
			EntityID: ap.ID.String(),
		})
	}

	if uc.notify != nil {
		uc.notify.Dispatch(notify.Booking{
			Reference:   domain.Reference(ap.ID),
			Name:        ap.UserName,
			Email:       ap.UserEmail,
			Phone:       ap.UserPhone,
			Date:        ap.AppointmentDate.Format("2006-01-02"),
			Time:        ap.AppointmentTime,
			ServiceType: ap.ServiceType,
			Notes:       ap.Notes,
		})
	}

	if uc.events != nil {
		uc.events.Publish(ctx, "appointments", "created", ap.ID.String())
	}

	return ap, nil
}
