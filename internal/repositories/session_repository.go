package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"musegen/internal/models/db_models"
)

type SessionRepository interface {
	Insert(ctx context.Context, session *db_models.Session) error
	FindActiveByToken(ctx context.Context, token string) (*db_models.Session, error)
	RevokeByToken(ctx context.Context, token string) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (s *sessionRepository) Insert(ctx context.Context, session *db_models.Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

// FindActiveByToken resolves a non-revoked, non-expired session. Expired rows
// are left in place; expiry is enforced at read time.
func (s *sessionRepository) FindActiveByToken(ctx context.Context, token string) (*db_models.Session, error) {
	var session db_models.Session
	err := s.db.WithContext(ctx).
		Where("token = ? AND revoked_at IS NULL AND expires_at > ?", token, time.Now().Unix()).
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

func (s *sessionRepository) RevokeByToken(ctx context.Context, token string) error {
	now := time.Now().Unix()
	return s.db.WithContext(ctx).
		Model(&db_models.Session{}).
		Where("token = ? AND revoked_at IS NULL", token).
		Update("revoked_at", now).Error
}
