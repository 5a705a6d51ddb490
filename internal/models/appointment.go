package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	AppointmentDate time.Time `gorm:"type:date;not null;index" json:"appointment_date"`
	AppointmentTime string    `gorm:"size:5;not null" json:"appointment_time"`

	UserName  string `gorm:"size:100;not null" json:"user_name"`
	UserEmail string `gorm:"size:100;not null" json:"user_email"`
	UserPhone string `gorm:"size:20" json:"user_phone"`

	ServiceType string `gorm:"size:100" json:"service_type"`
	Notes       string `gorm:"size:500" json:"notes"`

	Status string `gorm:"size:20;default:'pending';index" json:"status"`

	CancelledBy *uuid.UUID `gorm:"type:uuid" json:"cancelled_by"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
