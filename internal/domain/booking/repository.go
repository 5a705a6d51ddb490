package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

// ListFilter narrows the admin appointment listing. Zero values mean "all".
type ListFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type Repository interface {
	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Availability --------

	// ListBookedTimes returns the slot times already held for a date,
	// cancelled appointments excluded.
	ListBookedTimes(
		ctx context.Context,
		date time.Time,
	) ([]string, error)

	// -------- Dashboard --------
	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)

	CountAppointments(
		ctx context.Context,
		filter ListFilter,
	) (int64, error)
}
