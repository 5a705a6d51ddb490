package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s -> %s): want %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestAssertTransition_UnknownStatus(t *testing.T) {
	err := AssertTransition(StatusPending, Status("archived"))
	if !httperr.IsBusiness(err, "invalid_status") {
		t.Errorf("expected invalid_status business error, got %v", err)
	}
}

func TestAssertTransition_TerminalState(t *testing.T) {
	err := AssertTransition(StatusCompleted, StatusCancelled)
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Errorf("expected invalid_state business error, got %v", err)
	}
}

func TestTransition_CancelStampsActorAndTime(t *testing.T) {
	actor := uuid.New()
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusPending)}

	if err := Transition(ap, StatusCancelled, &actor, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ap.Status != string(StatusCancelled) {
		t.Errorf("status: want %q, got %q", StatusCancelled, ap.Status)
	}
	if ap.CancelledBy == nil || *ap.CancelledBy != actor {
		t.Errorf("cancelled_by: want %v, got %v", actor, ap.CancelledBy)
	}
	if ap.CancelledAt == nil || !ap.CancelledAt.Equal(now) {
		t.Errorf("cancelled_at: want %v, got %v", now, ap.CancelledAt)
	}
}

func TestTransition_ConfirmLeavesCancellationEmpty(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusPending)}

	if err := Transition(ap, StatusConfirmed, nil, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ap.CancelledBy != nil || ap.CancelledAt != nil {
		t.Error("confirm must not stamp cancellation fields")
	}
}

func TestTransition_RejectedLeavesAppointmentUntouched(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusCompleted)}

	err := Transition(ap, StatusCancelled, nil, time.Now())
	if err == nil {
		t.Fatal("expected error for completed -> cancelled")
	}
	if ap.Status != string(StatusCompleted) {
		t.Errorf("status must stay %q, got %q", StatusCompleted, ap.Status)
	}
}

func TestReference_UsesLeadingIDSegment(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")

	got := Reference(id)
	if got != "A1B2C3D4" {
		t.Errorf("reference: want %q, got %q", "A1B2C3D4", got)
	}
}
