package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/Igsankya24/krishna-tech-solutions/internal/domain/users"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

type UsersGormRepository struct {
	db *gorm.DB
}

func NewUsersGormRepository(db *gorm.DB) *UsersGormRepository {
	return &UsersGormRepository{db: db}
}

// --------------------------------------------------
// User / profile
// --------------------------------------------------

func (r *UsersGormRepository) GetUser(
	ctx context.Context,
	id uuid.UUID,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UsersGormRepository) GetProfile(
	ctx context.Context,
	userID uuid.UUID,
) (*models.Profile, error) {

	var profile models.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// --------------------------------------------------
// RBAC
// --------------------------------------------------

func (r *UsersGormRepository) ListRoles(
	ctx context.Context,
	userID uuid.UUID,
) ([]string, error) {

	var roles []string
	if err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role", &roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *UsersGormRepository) HasRole(
	ctx context.Context,
	userID uuid.UUID,
	role string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Deletion
// --------------------------------------------------

func (r *UsersGormRepository) DeleteUserCascade(
	ctx context.Context,
	userID uuid.UUID,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserPermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&models.User{}).Error
	})
}

// Compile-time check
var _ domain.Repository = (*UsersGormRepository)(nil)
