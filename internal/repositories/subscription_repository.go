package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"musegen/internal/models/db_models"
)

type SubscriptionRepository interface {
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error)
	UpsertByAccountID(ctx context.Context, sub *db_models.Subscription) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (s *subscriptionRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := s.db.WithContext(ctx).First(&sub, "account_id = ?", accountID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

// UpsertByAccountID inserts or updates the single subscription row for the
// account. Billing webhooks replay, so this must be an upsert, never an insert.
func (s *subscriptionRepository) UpsertByAccountID(ctx context.Context, sub *db_models.Subscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan_code", "status", "provider", "provider_customer_id", "provider_sub_id", "metadata", "updated_at",
		}),
	}).Create(sub).Error
}
