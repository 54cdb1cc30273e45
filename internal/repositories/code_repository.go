package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"musegen/internal/models/db_models"
)

type CodeRepository interface {
	Insert(ctx context.Context, code *db_models.OneTimeCode) error
	FindLatestByEmail(ctx context.Context, email string) (*db_models.OneTimeCode, error)
	DeleteAllForEmail(ctx context.Context, email string) error
}

type codeRepository struct {
	db *gorm.DB
}

func NewCodeRepository(db *gorm.DB) CodeRepository {
	return &codeRepository{db: db}
}

func (c *codeRepository) Insert(ctx context.Context, code *db_models.OneTimeCode) error {
	return c.db.WithContext(ctx).Create(code).Error
}

// FindLatestByEmail returns the most recently issued non-expired code for the
// email; several codes may be outstanding at once, most-recent wins.
func (c *codeRepository) FindLatestByEmail(ctx context.Context, email string) (*db_models.OneTimeCode, error) {
	var code db_models.OneTimeCode
	err := c.db.WithContext(ctx).
		Where("email = ? AND expires_at > ?", email, time.Now().Unix()).
		Order("created_at DESC").
		First(&code).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &code, nil
}

// DeleteAllForEmail wipes every outstanding code for the email in one go, so
// a successful verification cannot be replayed with an older code.
func (c *codeRepository) DeleteAllForEmail(ctx context.Context, email string) error {
	return c.db.WithContext(ctx).
		Unscoped().
		Where("email = ?", email).
		Delete(&db_models.OneTimeCode{}).Error
}
