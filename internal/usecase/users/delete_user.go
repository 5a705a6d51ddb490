package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/Igsankya24/krishna-tech-solutions/internal/audit"
	domain "github.com/Igsankya24/krishna-tech-solutions/internal/domain/users"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
)

// ======================================================
// USE CASE
// ======================================================

type Auditor interface {
	Dispatch(ev audit.Event)
}

type Publisher interface {
	Publish(ctx context.Context, entity, op, id string)
}

type DeleteUser struct {
	repo   domain.Repository
	audit  Auditor
	events Publisher
}

func NewDeleteUser(
	repo domain.Repository,
	auditor Auditor,
	publisher Publisher,
) *DeleteUser {
	return &DeleteUser{
		repo:   repo,
		audit:  auditor,
		events: publisher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute removes a user and every dependent row. Admins cannot remove
// themselves; that guard fires before anything is touched.
func (uc *DeleteUser) Execute(
	ctx context.Context,
	targetID uuid.UUID,
	actorID uuid.UUID,
) error {

	// --------------------------------------------------
	// 1. Self-deletion guard
	// --------------------------------------------------
	if targetID == actorID {
		return httperr.ErrBusiness("self_delete")
	}

	// --------------------------------------------------
	// 2. Target must exist
	// --------------------------------------------------
	if _, err := uc.repo.GetUser(ctx, targetID); err != nil {
		return httperr.ErrBusiness("user_not_found")
	}

	// --------------------------------------------------
	// 3. Cascade: sessions, permissions, roles, profile, user
	// --------------------------------------------------
	if err := uc.repo.DeleteUserCascade(ctx, targetID); err != nil {
		return err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			ActorID:  &actorID,
			Action:   "user_deleted",
			Entity:   "user",
			EntityID: targetID.String(),
		})
	}

	if uc.events != nil {
		uc.events.Publish(ctx, "users", "deleted", targetID.String())
	}

	return nil
}
