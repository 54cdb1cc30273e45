package db_models

// OneTimeCode stores a bcrypt hash of a login code. Several rows may exist
// per email; verification takes the most recent non-expired one and deletes
// the whole set on success.
type OneTimeCode struct {
	BaseModel
	Email     string `gorm:"index"`
	CodeHash  string
	ExpiresAt int64 `gorm:"not null"`
}
