package models

import "time"

const (
	ConnectionStatusUnknown   = "unknown"
	ConnectionStatusConnected = "connected"
	ConnectionStatusFailed    = "failed"
)

// ClientCredential holds the secondary client project a deployment targets.
// At most one row exists; saving replaces any prior row. The service key is
// stored AES-GCM sealed and is never serialized.
type ClientCredential struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProjectURL string `gorm:"size:255;not null" json:"project_url"`
	AnonKey    string `gorm:"size:512" json:"anon_key"`

	ServiceKeyCiphertext []byte `gorm:"type:bytea" json:"-"`

	ConnectionStatus string     `gorm:"size:20;default:'unknown'" json:"connection_status"`
	LastTestedAt     *time.Time `json:"last_tested_at"`

	Initialized   bool       `gorm:"default:false" json:"initialized"`
	InitializedAt *time.Time `json:"initialized_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
