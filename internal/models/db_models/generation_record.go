package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type FeatureType string

const (
	FeatureImage FeatureType = "image"
	FeatureVideo FeatureType = "video"
)

// GenerationRecord is append-only; rows are never mutated after creation.
type GenerationRecord struct {
	BaseModel
	AccountID uuid.UUID   `gorm:"index:idx_generations_account_created"`
	Feature   FeatureType `gorm:"index"`
	Prompt    string      `gorm:"type:text"`
	OutputURL string      `gorm:"type:text"`

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
