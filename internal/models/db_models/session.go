package db_models

import "github.com/google/uuid"

// Session maps an opaque bearer token to an account. Expired rows are simply
// ignored on lookup; there is no sweeper.
type Session struct {
	BaseModel
	Token     string    `gorm:"uniqueIndex"`
	AccountID uuid.UUID `gorm:"index"`
	ExpiresAt int64     `gorm:"not null"`
	RevokedAt *int64
}
