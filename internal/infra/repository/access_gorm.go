package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Igsankya24/krishna-tech-solutions/internal/middleware"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

// AccessGormStore backs the authorization middleware with row counts, the
// same checks the original row-level policies expressed.
type AccessGormStore struct {
	db *gorm.DB
}

func NewAccessGormStore(db *gorm.DB) *AccessGormStore {
	return &AccessGormStore{db: db}
}

func (s *AccessGormStore) IsApproved(
	ctx context.Context,
	userID uuid.UUID,
) (bool, error) {

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ? AND is_approved = ?", userID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *AccessGormStore) HasRole(
	ctx context.Context,
	userID uuid.UUID,
	role string,
) (bool, error) {

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *AccessGormStore) HasPermission(
	ctx context.Context,
	userID uuid.UUID,
	permission string,
) (bool, error) {

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.UserPermission{}).
		Where("user_id = ? AND permission = ?", userID, permission).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Compile-time check
var _ middleware.AccessStore = (*AccessGormStore)(nil)
