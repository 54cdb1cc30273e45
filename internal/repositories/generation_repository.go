package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"musegen/internal/models/db_models"
)

type GenerationRepository interface {
	Insert(ctx context.Context, record *db_models.GenerationRecord) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]db_models.GenerationRecord, error)
}

type generationRepository struct {
	db *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &generationRepository{db: db}
}

func (g *generationRepository) Insert(ctx context.Context, record *db_models.GenerationRecord) error {
	return g.db.WithContext(ctx).Create(record).Error
}

func (g *generationRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]db_models.GenerationRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var records []db_models.GenerationRecord
	err := g.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
