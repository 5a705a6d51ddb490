package models

import "time"

// Setting is one admin-editable key/value pair (site contact details,
// booking notice text and similar).
type Setting struct {
	Key   string `gorm:"size:64;primaryKey" json:"key"`
	Value string `gorm:"type:text" json:"value"`

	UpdatedAt time.Time `json:"updated_at"`
}
