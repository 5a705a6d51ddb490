package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

type Repository interface {
	// -------- User / profile --------
	GetUser(
		ctx context.Context,
		id uuid.UUID,
	) (*models.User, error)

	GetProfile(
		ctx context.Context,
		userID uuid.UUID,
	) (*models.Profile, error)

	// -------- RBAC --------
	ListRoles(
		ctx context.Context,
		userID uuid.UUID,
	) ([]string, error)

	HasRole(
		ctx context.Context,
		userID uuid.UUID,
		role string,
	) (bool, error)

	// -------- Deletion --------

	// DeleteUserCascade removes, in one transaction, the user's sessions,
	// permissions, roles, and profile before the user row itself.
	DeleteUserCascade(
		ctx context.Context,
		userID uuid.UUID,
	) error
}
