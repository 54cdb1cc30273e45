package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusPastDue  SubscriptionStatus = "past_due"
	SubStatusCanceled SubscriptionStatus = "canceled"
)

// Subscription is one-to-one with Account and always upserted by account key,
// never recreated, so replayed billing events cannot produce duplicate rows.
type Subscription struct {
	BaseModel
	AccountID uuid.UUID `gorm:"uniqueIndex"`

	PlanCode string             `gorm:"index"`
	Status   SubscriptionStatus `gorm:"index"`

	Provider           string
	ProviderCustomerID string `gorm:"index"`
	ProviderSubID      string `gorm:"index"`

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
