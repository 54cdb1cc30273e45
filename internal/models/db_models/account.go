package db_models

type Account struct {
	BaseModel
	// Stable identifier issued by the third-party identity provider. Empty
	// for accounts created through the one-time-code flow.
	ExternalID string `gorm:"uniqueIndex:idx_accounts_external_id,where:external_id <> ''"`
	// Identity events may carry no email address, so uniqueness only holds
	// for non-empty values.
	Email string `gorm:"uniqueIndex:idx_accounts_email,where:email <> ''"`
	Name       string

	Subscription *Subscription      `gorm:"foreignKey:AccountID"`
	Usage        []UsageRecord      `gorm:"foreignKey:AccountID"`
	Generations  []GenerationRecord `gorm:"foreignKey:AccountID"`
}
