package booking

import (
	"context"
	"testing"

	"github.com/google/uuid"

	domain "github.com/Igsankya24/krishna-tech-solutions/internal/domain/booking"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
)

func TestTransition_ConfirmPending(t *testing.T) {
	repo := newStubRepo()
	uc, _, _, _ := newReserve(repo)

	ap, err := uc.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	admin := uuid.New()
	auditor := &stubAuditor{}
	publisher := &stubPublisher{}
	tr := NewTransitionAppointment(repo, auditor, publisher)

	got, err := tr.Execute(context.Background(), ap.ID, string(domain.StatusConfirmed), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != string(domain.StatusConfirmed) {
		t.Errorf("status: want confirmed, got %q", got.Status)
	}
	if got.CancelledBy != nil {
		t.Error("confirm must not stamp cancellation")
	}
	if len(auditor.events) != 1 || auditor.events[0].Action != "appointment_confirmed" {
		t.Errorf("audit: want appointment_confirmed, got %+v", auditor.events)
	}
	if len(publisher.topics) != 1 || publisher.topics[0] != "appointments:updated" {
		t.Errorf("events: want appointments:updated, got %v", publisher.topics)
	}
}

func TestTransition_CancelStampsActor(t *testing.T) {
	repo := newStubRepo()
	uc, _, _, _ := newReserve(repo)

	ap, _ := uc.Execute(context.Background(), validInput())
	admin := uuid.New()
	tr := NewTransitionAppointment(repo, nil, nil)

	got, err := tr.Execute(context.Background(), ap.ID, string(domain.StatusCancelled), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CancelledBy == nil || *got.CancelledBy != admin {
		t.Errorf("cancelled_by: want %v, got %v", admin, got.CancelledBy)
	}
	if got.CancelledAt == nil {
		t.Error("cancelled_at must be stamped")
	}

	// The stored row changed too, not just the returned copy.
	stored, _ := repo.GetAppointment(context.Background(), ap.ID)
	if stored.Status != string(domain.StatusCancelled) {
		t.Errorf("stored status: want cancelled, got %q", stored.Status)
	}
}

func TestTransition_InvalidMove(t *testing.T) {
	repo := newStubRepo()
	uc, _, _, _ := newReserve(repo)

	ap, _ := uc.Execute(context.Background(), validInput())
	tr := NewTransitionAppointment(repo, nil, nil)

	// pending -> completed skips confirmation.
	_, err := tr.Execute(context.Background(), ap.ID, string(domain.StatusCompleted), uuid.New())
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Errorf("want invalid_state, got %v", err)
	}

	stored, _ := repo.GetAppointment(context.Background(), ap.ID)
	if stored.Status != string(domain.StatusPending) {
		t.Errorf("rejected transition must not change the row, got %q", stored.Status)
	}
}

func TestTransition_NotFound(t *testing.T) {
	repo := newStubRepo()
	tr := NewTransitionAppointment(repo, nil, nil)

	_, err := tr.Execute(context.Background(), uuid.New(), string(domain.StatusConfirmed), uuid.New())
	if !httperr.IsBusiness(err, "appointment_not_found") {
		t.Errorf("want appointment_not_found, got %v", err)
	}
}

func TestBookedTimes_InvalidDate(t *testing.T) {
	repo := newStubRepo()
	bt := NewBookedTimes(repo)

	_, err := bt.Execute(context.Background(), "tomorrow")
	if !httperr.IsBusiness(err, "invalid_date") {
		t.Errorf("want invalid_date, got %v", err)
	}
}

func TestBookedTimes_CancelledNotListed(t *testing.T) {
	repo := newStubRepo()
	uc, _, _, _ := newReserve(repo)

	ap, _ := uc.Execute(context.Background(), validInput())
	tr := NewTransitionAppointment(repo, nil, nil)
	if _, err := tr.Execute(context.Background(), ap.ID, string(domain.StatusCancelled), uuid.New()); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	out, err := NewBookedTimes(repo).Execute(context.Background(), "2027-03-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Taken) != 0 {
		t.Errorf("cancelled booking must not hold the slot, got %v", out.Taken)
	}
	for _, s := range out.Slots {
		if s.Time == "11:00" && !s.Available {
			t.Error("slot 11:00 must be available again after cancellation")
		}
	}
}
