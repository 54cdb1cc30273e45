package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"musegen/internal/models/db_models"
	"musegen/internal/plans"
)

type UsageRepository interface {
	FindForDay(ctx context.Context, accountID uuid.UUID, day plans.DayKey) (*db_models.UsageRecord, error)
	IncrementFeature(ctx context.Context, accountID uuid.UUID, day plans.DayKey, feature db_models.FeatureType) (*db_models.UsageRecord, error)
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (u *usageRepository) FindForDay(ctx context.Context, accountID uuid.UUID, day plans.DayKey) (*db_models.UsageRecord, error) {
	var record db_models.UsageRecord
	err := u.db.WithContext(ctx).
		First(&record, "account_id = ? AND day_key = ?", accountID, day.String()).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

func featureColumn(feature db_models.FeatureType) (string, error) {
	switch feature {
	case db_models.FeatureImage:
		return "images_used", nil
	case db_models.FeatureVideo:
		return "videos_used", nil
	default:
		return "", fmt.Errorf("no usage column for feature %q", feature)
	}
}

// IncrementFeature is the ledger's single atomic primitive: INSERT the day row
// with count 1, or on conflict bump the counter relative to its stored value.
// The increment is never an overwrite of a previously read count, so
// concurrent callers cannot lose updates.
func (u *usageRepository) IncrementFeature(ctx context.Context, accountID uuid.UUID, day plans.DayKey, feature db_models.FeatureType) (*db_models.UsageRecord, error) {
	column, err := featureColumn(feature)
	if err != nil {
		return nil, err
	}

	record := db_models.UsageRecord{
		AccountID: accountID,
		DayKey:    day.String(),
	}
	switch feature {
	case db_models.FeatureVideo:
		record.VideosUsed = 1
	default:
		record.ImagesUsed = 1
	}

	err = u.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "day_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			column:       gorm.Expr(fmt.Sprintf("usage_records.%s + 1", column)),
			"updated_at": time.Now().Unix(),
		}),
	}).Create(&record).Error
	if err != nil {
		return nil, err
	}

	return u.FindForDay(ctx, accountID, day)
}
