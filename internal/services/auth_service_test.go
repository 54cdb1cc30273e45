package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musegen/internal/models/db_models"
	"musegen/pkg/utils"
)

type authFixture struct {
	accounts *fakeAccountRepo
	codes    *fakeCodeRepo
	sessions *fakeSessionRepo
	mail     *fakeMailService
	idp      *fakeIDPVerifier
	service  *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		accounts: newFakeAccountRepo(),
		codes:    newFakeCodeRepo(),
		sessions: newFakeSessionRepo(),
		mail:     &fakeMailService{},
		idp:      &fakeIDPVerifier{},
	}
	f.service = NewAuthService(f.accounts, f.codes, f.sessions, f.mail, f.idp).(*AuthService)
	return f
}

func TestRequestCodeCreatesAccountAndSendsMail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestCode(ctx, "Maker@Example.com", "Maker"))

	account, err := f.accounts.FindByEmail(ctx, "maker@example.com")
	require.NoError(t, err)
	require.NotNil(t, account)

	code := f.mail.lastCode()
	assert.Len(t, code, 6)

	// The stored row holds a hash, never the code itself.
	row, err := f.codes.FindLatestByEmail(ctx, "maker@example.com")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.NotEqual(t, code, row.CodeHash)
	assert.NoError(t, utils.CompareCode(row.CodeHash, code))
}

func TestVerifyCodeIssuesSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestCode(ctx, "maker@example.com", ""))
	code := f.mail.lastCode()

	token, err := f.service.VerifyCode(ctx, "maker@example.com", code)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	account, err := f.service.ResolveIdentity(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "maker@example.com", account.Email)
}

func TestVerifyCodeWrongCode(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestCode(ctx, "maker@example.com", ""))

	_, err := f.service.VerifyCode(ctx, "maker@example.com", "000000")
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpiredCode)
}

func TestVerifyCodeMostRecentWins(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestCode(ctx, "maker@example.com", ""))
	first := f.mail.lastCode()
	require.NoError(t, f.service.RequestCode(ctx, "maker@example.com", ""))
	second := f.mail.lastCode()

	if first == second {
		t.Skip("codes collided, cannot distinguish most-recent")
	}

	// Only the most recently issued code verifies.
	_, err := f.service.VerifyCode(ctx, "maker@example.com", first)
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpiredCode)

	_, err = f.service.VerifyCode(ctx, "maker@example.com", second)
	assert.NoError(t, err)
}

func TestVerifyCodeReplayRejected(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestCode(ctx, "maker@example.com", ""))
	code := f.mail.lastCode()

	_, err := f.service.VerifyCode(ctx, "maker@example.com", code)
	require.NoError(t, err)

	// Success wiped every code for the email; the same code cannot be
	// replayed.
	_, err = f.service.VerifyCode(ctx, "maker@example.com", code)
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpiredCode)
}

func TestVerifyCodeExpired(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	hash, err := utils.HashCode("123456")
	require.NoError(t, err)
	require.NoError(t, f.codes.Insert(ctx, &db_models.OneTimeCode{
		Email:     "maker@example.com",
		CodeHash:  hash,
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}))

	_, err = f.service.VerifyCode(ctx, "maker@example.com", "123456")
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpiredCode)
}

func TestResolveIdentityRejectsUnknownAndEmpty(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.ResolveIdentity(ctx, "")
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)

	_, err = f.service.ResolveIdentity(ctx, "deadbeef")
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
}

func TestResolveIdentityExpiredSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	account := &db_models.Account{Email: "maker@example.com"}
	require.NoError(t, f.accounts.Insert(ctx, account))
	require.NoError(t, f.sessions.Insert(ctx, &db_models.Session{
		Token:     "stale-token",
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	}))

	_, err := f.service.ResolveIdentity(ctx, "stale-token")
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
}

func TestResolveIdentityRevokedSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestCode(ctx, "maker@example.com", ""))
	token, err := f.service.VerifyCode(ctx, "maker@example.com", f.mail.lastCode())
	require.NoError(t, err)

	require.NoError(t, f.service.RevokeSession(ctx, token))

	_, err = f.service.ResolveIdentity(ctx, token)
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
}

func TestResolveIdentityIDPTokenProvisionsAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.idp.claims = &utils.IDPClaims{Subject: "idp|42", Email: "Studio@Example.com", Name: "Studio"}

	// Two dots select the JWT scheme.
	account, err := f.service.ResolveIdentity(ctx, "aaa.bbb.ccc")
	require.NoError(t, err)
	assert.Equal(t, "idp|42", account.ExternalID)
	assert.Equal(t, "studio@example.com", account.Email)

	// Resolving again reuses the provisioned account.
	again, err := f.service.ResolveIdentity(ctx, "aaa.bbb.ccc")
	require.NoError(t, err)
	assert.Equal(t, account.ID, again.ID)
}

func TestResolveIdentityIDPTokenClaimsCodeProvisionedAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.RequestCode(ctx, "ana@example.com", "Ana"))
	existing, err := f.accounts.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, existing)

	f.idp.claims = &utils.IDPClaims{Subject: "idp|7", Email: "ana@example.com", Name: "Ana"}

	account, err := f.service.ResolveIdentity(ctx, "aaa.bbb.ccc")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, account.ID)
	assert.Equal(t, "idp|7", account.ExternalID)
	assert.Len(t, f.accounts.accounts, 1)
}

func TestResolveIdentityIDPVerifyFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.idp.err = errors.New("bad signature")

	_, err := f.service.ResolveIdentity(context.Background(), "aaa.bbb.ccc")
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
}
