package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

const (
	PermissionManageAppointments = "manage_appointments"
	PermissionManageUsers        = "manage_users"
	PermissionManageServices     = "manage_services"
	PermissionManageCoupons      = "manage_coupons"
	PermissionManageSettings     = "manage_settings"
	PermissionViewAuditLogs      = "view_audit_logs"
)

type UserRole struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_user_roles_pair" json:"user_id"`
	Role   string    `gorm:"size:20;not null;uniqueIndex:ux_user_roles_pair" json:"role"`

	CreatedAt time.Time `json:"created_at"`
}

type UserPermission struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_user_permissions_pair" json:"user_id"`
	Permission string    `gorm:"size:50;not null;uniqueIndex:ux_user_permissions_pair" json:"permission"`

	CreatedAt time.Time `json:"created_at"`
}
