package booking

import (
	"context"

	domain "github.com/Igsankya24/krishna-tech-solutions/internal/domain/booking"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/timezone"
)

// ======================================================
// OUTPUT
// ======================================================

// BookedTimesOutput feeds the calendar view. Taken lists the raw held times;
// Slots is the full grid with availability flags, a UI convenience that may
// be stale the moment it is rendered.
type BookedTimesOutput struct {
	Date  string            `json:"date"`
	Taken []string          `json:"taken"`
	Slots []domain.TimeSlot `json:"slots"`
}

// ======================================================
// USE CASE
// ======================================================

type BookedTimes struct {
	repo domain.Repository
}

func NewBookedTimes(repo domain.Repository) *BookedTimes {
	return &BookedTimes{repo: repo}
}

func (uc *BookedTimes) Execute(
	ctx context.Context,
	dateStr string,
) (*BookedTimesOutput, error) {

	loc := timezone.Location(timezone.DefaultTimezone)

	date, err := domain.ParseDate(dateStr, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	taken, err := uc.repo.ListBookedTimes(ctx, date)
	if err != nil {
		return nil, err
	}

	return &BookedTimesOutput{
		Date:  date.Format("2006-01-02"),
		Taken: taken,
		Slots: domain.DaySlots(date, taken),
	}, nil
}
