package db_models

import "github.com/google/uuid"

// UsageRecord holds one row per account per calendar day. Counters are only
// ever touched through the ledger's atomic increment; the day rolling over
// is the implicit reset.
type UsageRecord struct {
	BaseModel
	AccountID uuid.UUID `gorm:"uniqueIndex:idx_usage_account_day"`
	DayKey    string    `gorm:"uniqueIndex:idx_usage_account_day"`

	ImagesUsed int `gorm:"not null;default:0"`
	VideosUsed int `gorm:"not null;default:0"`
}

// CountFor returns the consumed count for a feature column.
func (u *UsageRecord) CountFor(feature FeatureType) int {
	if u == nil {
		return 0
	}
	switch feature {
	case FeatureVideo:
		return u.VideosUsed
	default:
		return u.ImagesUsed
	}
}
