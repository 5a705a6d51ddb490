package booking

import (
	"context"
	"time"

	domain "github.com/Igsankya24/krishna-tech-solutions/internal/domain/booking"
	"github.com/Igsankya24/krishna-tech-solutions/internal/dto"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ListAppointmentsInput struct {
	Status string
	From   string
	To     string
	Limit  int
	Offset int
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ======================================================
// USE CASE
// ======================================================

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]dto.AppointmentListDTO, int64, error) {

	if in.Status != "" && !domain.IsValidStatus(domain.Status(in.Status)) {
		return nil, 0, httperr.ErrBusiness("invalid_status")
	}

	filter := domain.ListFilter{
		Status: in.Status,
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	loc := timezone.Location(timezone.DefaultTimezone)
	if in.From != "" {
		from, err := domain.ParseDate(in.From, loc)
		if err != nil {
			return nil, 0, httperr.ErrBusiness("invalid_date")
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := domain.ParseDate(in.To, loc)
		if err != nil {
			return nil, 0, httperr.ErrBusiness("invalid_date")
		}
		// Inclusive upper bound: advance to the end of the day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}

	total, err := uc.repo.CountAppointments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	rows, err := uc.repo.ListAppointments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(rows))
	for _, ap := range rows {
		out = append(out, dto.AppointmentListDTO{
			ID:              ap.ID,
			Reference:       domain.Reference(ap.ID),
			AppointmentDate: ap.AppointmentDate.Format("2006-01-02"),
			AppointmentTime: ap.AppointmentTime,
			Status:          ap.Status,
			UserName:        ap.UserName,
			UserEmail:       ap.UserEmail,
			UserPhone:       ap.UserPhone,
			ServiceType:     ap.ServiceType,
			CreatedAt:       ap.CreatedAt,
		})
	}
	return out, total, nil
}
