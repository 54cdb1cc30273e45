package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musegen/internal/models/db_models"
)

func TestUpsertByExternalIDInsertsAndReplays(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	first, err := repo.UpsertByExternalID(ctx, &db_models.Account{
		ExternalID: "usr_1",
		Email:      "ana@example.com",
		Name:       "Ana",
	})
	require.NoError(t, err)
	require.NotNil(t, first)

	// Redelivery with refreshed profile data lands on the same row.
	second, err := repo.UpsertByExternalID(ctx, &db_models.Account{
		ExternalID: "usr_1",
		Email:      "new@example.com",
		Name:       "Anastasia",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "new@example.com", second.Email)
	assert.Equal(t, "Anastasia", second.Name)

	var count int64
	require.NoError(t, db.Model(&db_models.Account{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertByExternalIDClaimsCodeProvisionedAccount(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	existing := &db_models.Account{Email: "ana@example.com", Name: "Ana"}
	require.NoError(t, repo.Insert(ctx, existing))

	// The provider reports the same email: the identity attaches to the
	// existing account instead of inserting a duplicate email row.
	merged, err := repo.UpsertByExternalID(ctx, &db_models.Account{
		ExternalID: "usr_1",
		Email:      "ana@example.com",
		Name:       "Ana Reyes",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, merged.ID)
	assert.Equal(t, "usr_1", merged.ExternalID)

	var count int64
	require.NoError(t, db.Model(&db_models.Account{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertByExternalIDWithoutEmailCoexists(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	// Identity events may carry no email address; two such accounts must not
	// collide on the empty string.
	a, err := repo.UpsertByExternalID(ctx, &db_models.Account{ExternalID: "usr_1"})
	require.NoError(t, err)
	b, err := repo.UpsertByExternalID(ctx, &db_models.Account{ExternalID: "usr_2"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	// And both coexist with accounts the one-time-code flow created, which
	// have no external id.
	require.NoError(t, repo.Insert(ctx, &db_models.Account{Email: "ana@example.com"}))
	require.NoError(t, repo.Insert(ctx, &db_models.Account{Email: "bea@example.com"}))

	var count int64
	require.NoError(t, db.Model(&db_models.Account{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)
}

func TestDeleteCascadeByExternalID(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account, err := repo.UpsertByExternalID(ctx, &db_models.Account{
		ExternalID: "usr_1",
		Email:      "ana@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&db_models.Subscription{
		AccountID: account.ID,
		PlanCode:  "pro",
		Status:    db_models.SubStatusActive,
	}).Error)
	require.NoError(t, db.Create(&db_models.Session{
		AccountID: account.ID,
		Token:     "tok",
		ExpiresAt: 1,
	}).Error)

	require.NoError(t, repo.DeleteCascadeByExternalID(ctx, "usr_1"))

	gone, err := repo.FindByExternalID(ctx, "usr_1")
	require.NoError(t, err)
	assert.Nil(t, gone)
	for _, owned := range []interface{}{&db_models.Subscription{}, &db_models.Session{}} {
		var count int64
		require.NoError(t, db.Model(owned).Where("account_id = ?", account.ID).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	}

	// Unknown identities delete as a no-op; deletion events replay too.
	assert.NoError(t, repo.DeleteCascadeByExternalID(ctx, "usr_1"))
}
