package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"musegen/internal/models/db_models"
)

type AccountRepository interface {
	Insert(ctx context.Context, account *db_models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	FindByExternalID(ctx context.Context, externalID string) (*db_models.Account, error)
	UpsertByExternalID(ctx context.Context, account *db_models.Account) (*db_models.Account, error)
	DeleteCascadeByExternalID(ctx context.Context, externalID string) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).Create(account).Error
}

func (a *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) FindByExternalID(ctx context.Context, externalID string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "external_id = ?", externalID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

// UpsertByExternalID inserts the account or refreshes email/name in place,
// keyed by the identity provider's stable identifier. Safe to replay. ON
// CONFLICT cannot converge here: external_id sits behind a partial unique
// index its conflict target would not match, and an account provisioned
// through the one-time-code flow already holds the email with an empty
// external_id, so that account must be claimed rather than duplicated. The
// merge therefore runs as a read-then-write inside one transaction.
func (a *accountRepository) UpsertByExternalID(ctx context.Context, account *db_models.Account) (*db_models.Account, error) {
	var result db_models.Account

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findForIdentityMerge(tx, account)
		if err != nil {
			return err
		}

		if existing == nil {
			if err := tx.Create(account).Error; err != nil {
				return err
			}
			result = *account
			return nil
		}

		updates := map[string]interface{}{
			"external_id": account.ExternalID,
			"name":        account.Name,
		}
		if account.Email != "" {
			updates["email"] = account.Email
		}
		if err := tx.Model(existing).Updates(updates).Error; err != nil {
			return err
		}

		return tx.First(&result, "id = ?", existing.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// findForIdentityMerge locates the row an identity event should land on:
// first by the provider identifier, then by email for accounts the one-time
// code flow created before the provider ever reported them.
func findForIdentityMerge(tx *gorm.DB, account *db_models.Account) (*db_models.Account, error) {
	var existing db_models.Account

	err := tx.First(&existing, "external_id = ?", account.ExternalID).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if account.Email == "" {
		return nil, nil
	}

	err = tx.First(&existing, "email = ? AND external_id = ''", account.Email).Error
	if err == nil {
		return &existing, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

// DeleteCascadeByExternalID hard-deletes the account and every owned record.
// Sessions are removed too so revocation is immediate.
func (a *accountRepository) DeleteCascadeByExternalID(ctx context.Context, externalID string) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account db_models.Account
		err := tx.First(&account, "external_id = ?", externalID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		for _, owned := range []interface{}{
			&db_models.Subscription{},
			&db_models.UsageRecord{},
			&db_models.GenerationRecord{},
			&db_models.Session{},
		} {
			if err := tx.Unscoped().Where("account_id = ?", account.ID).Delete(owned).Error; err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&account).Error
	})
}
