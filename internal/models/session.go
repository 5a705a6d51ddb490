package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the login/logout audit trail, one row per sign-in.
type Session struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	LoginAt  time.Time  `gorm:"not null" json:"login_at"`
	LogoutAt *time.Time `json:"logout_at"`

	UserAgent string `gorm:"size:255" json:"user_agent"`
	IP        string `gorm:"size:45" json:"ip"`

	CreatedAt time.Time `json:"created_at"`
}
