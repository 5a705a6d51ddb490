package models

import "time"

type Coupon struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Code            string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Description     string `gorm:"size:255" json:"description"`
	DiscountPercent int    `gorm:"not null" json:"discount_percent"`

	IsActive  bool       `gorm:"default:true;index" json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
