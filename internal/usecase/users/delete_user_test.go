package users

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Igsankya24/krishna-tech-solutions/internal/audit"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	cascades []uuid.UUID
	delErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *stubUserRepo) seed() uuid.UUID {
	id := uuid.New()
	r.users[id] = &models.User{ID: id, Email: id.String() + "@example.com"}
	return id
}

func (r *stubUserRepo) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) GetProfile(_ context.Context, _ uuid.UUID) (*models.Profile, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) ListRoles(_ context.Context, _ uuid.UUID) ([]string, error) {
	return nil, nil
}

func (r *stubUserRepo) HasRole(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

func (r *stubUserRepo) DeleteUserCascade(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.delErr != nil {
		return r.delErr
	}
	delete(r.users, id)
	r.cascades = append(r.cascades, id)
	return nil
}

type stubAuditor struct {
	events []audit.Event
}

func (a *stubAuditor) Dispatch(ev audit.Event) { a.events = append(a.events, ev) }

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestDeleteUser_SelfDeletionRejected(t *testing.T) {
	repo := newStubUserRepo()
	admin := repo.seed()
	uc := NewDeleteUser(repo, nil, nil)

	err := uc.Execute(context.Background(), admin, admin)
	if !httperr.IsBusiness(err, "self_delete") {
		t.Fatalf("want self_delete, got %v", err)
	}
	if len(repo.cascades) != 0 {
		t.Error("self-deletion must not remove any rows")
	}
	if _, err := repo.GetUser(context.Background(), admin); err != nil {
		t.Error("admin row must survive a self-delete attempt")
	}
}

func TestDeleteUser_RemovesTarget(t *testing.T) {
	repo := newStubUserRepo()
	admin := repo.seed()
	target := repo.seed()
	auditor := &stubAuditor{}
	uc := NewDeleteUser(repo, auditor, nil)

	if err := uc.Execute(context.Background(), target, admin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.cascades) != 1 || repo.cascades[0] != target {
		t.Errorf("cascade: want [%v], got %v", target, repo.cascades)
	}
	if _, err := repo.GetUser(context.Background(), target); err == nil {
		t.Error("target user must be gone")
	}
	if len(auditor.events) != 1 || auditor.events[0].Action != "user_deleted" {
		t.Errorf("audit: want user_deleted, got %+v", auditor.events)
	}
	if auditor.events[0].ActorID == nil || *auditor.events[0].ActorID != admin {
		t.Error("audit event must name the acting admin")
	}
}

func TestDeleteUser_UnknownTarget(t *testing.T) {
	repo := newStubUserRepo()
	admin := repo.seed()
	uc := NewDeleteUser(repo, nil, nil)

	err := uc.Execute(context.Background(), uuid.New(), admin)
	if !httperr.IsBusiness(err, "user_not_found") {
		t.Errorf("want user_not_found, got %v", err)
	}
}

func TestDeleteUser_CascadeFailurePropagates(t *testing.T) {
	repo := newStubUserRepo()
	admin := repo.seed()
	target := repo.seed()
	repo.delErr = context.DeadlineExceeded
	auditor := &stubAuditor{}
	uc := NewDeleteUser(repo, auditor, nil)

	if err := uc.Execute(context.Background(), target, admin); err == nil {
		t.Fatal("expected error when cascade fails")
	}
	if len(auditor.events) != 0 {
		t.Error("failed deletion must not audit")
	}
}
