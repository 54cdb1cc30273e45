package services

import (
	"context"
	"log"
	"strings"
	"time"

	"musegen/internal/models/db_models"
	"musegen/internal/repositories"
	"musegen/pkg/utils"
)

const (
	otpLength     = 6
	otpTTL        = 10 * time.Minute
	sessionTTL    = 30 * 24 * time.Hour
	sessionTokens = 32 // random bytes per opaque token
)

type AuthServiceInterface interface {
	RequestCode(ctx context.Context, email, name string) error
	VerifyCode(ctx context.Context, email, code string) (string, error)
	// ResolveIdentity maps a bearer credential to an account, regardless of
	// which scheme issued it. Callers never learn which scheme matched.
	ResolveIdentity(ctx context.Context, credential string) (*db_models.Account, error)
	RevokeSession(ctx context.Context, token string) error
}

type AuthService struct {
	accountRepo repositories.AccountRepository
	codeRepo    repositories.CodeRepository
	sessionRepo repositories.SessionRepository
	mail        IMailService
	idp         utils.IDPVerifier
}

func NewAuthService(
	accountRepo repositories.AccountRepository,
	codeRepo repositories.CodeRepository,
	sessionRepo repositories.SessionRepository,
	mail IMailService,
	idp utils.IDPVerifier,
) AuthServiceInterface {
	return &AuthService{
		accountRepo: accountRepo,
		codeRepo:    codeRepo,
		sessionRepo: sessionRepo,
		mail:        mail,
		idp:         idp,
	}
}

func (a *AuthService) RequestCode(ctx context.Context, email, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return utils.ErrInvalidCredentials
	}

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		account = &db_models.Account{Email: email, Name: name}
		if err := a.accountRepo.Insert(ctx, account); err != nil {
			return utils.ErrDatabaseError
		}
	}

	code, err := utils.GenerateOtpCode(otpLength)
	if err != nil {
		return err
	}
	hash, err := utils.HashCode(code)
	if err != nil {
		return err
	}

	row := &db_models.OneTimeCode{
		Email:     email,
		CodeHash:  hash,
		ExpiresAt: time.Now().Add(otpTTL).Unix(),
	}
	if err := a.codeRepo.Insert(ctx, row); err != nil {
		return utils.ErrDatabaseError
	}

	// The code travels out-of-band only; it never appears in a response body.
	if err := a.mail.SendOneTimeCode(email, code); err != nil {
		log.Printf("auth: failed to send code to %s: %v", email, err)
		return err
	}

	return nil
}

func (a *AuthService) VerifyCode(ctx context.Context, email, code string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	latest, err := a.codeRepo.FindLatestByEmail(ctx, email)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if latest == nil {
		return "", utils.ErrInvalidOrExpiredCode
	}

	if err := utils.CompareCode(latest.CodeHash, code); err != nil {
		return "", utils.ErrInvalidOrExpiredCode
	}

	// Codes are single-use as a set: wipe every outstanding code for the
	// email so none of them can be replayed.
	if err := a.codeRepo.DeleteAllForEmail(ctx, email); err != nil {
		return "", utils.ErrDatabaseError
	}

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if account == nil {
		return "", utils.ErrAccountNotFound
	}

	return a.issueSession(ctx, account)
}

func (a *AuthService) issueSession(ctx context.Context, account *db_models.Account) (string, error) {
	token, err := utils.GenerateSecureToken(sessionTokens)
	if err != nil {
		return "", err
	}

	session := &db_models.Session{
		Token:     token,
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(sessionTTL).Unix(),
	}
	if err := a.sessionRepo.Insert(ctx, session); err != nil {
		return "", utils.ErrDatabaseError
	}

	return token, nil
}

func (a *AuthService) ResolveIdentity(ctx context.Context, credential string) (*db_models.Account, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, utils.ErrUnauthenticated
	}

	// Credential shape selects the scheme: a JWT has exactly two dots,
	// opaque session tokens are plain hex.
	if strings.Count(credential, ".") == 2 {
		return a.resolveIDPToken(ctx, credential)
	}
	return a.resolveSessionToken(ctx, credential)
}

func (a *AuthService) resolveSessionToken(ctx context.Context, token string) (*db_models.Account, error) {
	session, err := a.sessionRepo.FindActiveByToken(ctx, token)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if session == nil {
		return nil, utils.ErrUnauthenticated
	}

	account, err := a.accountRepo.FindByID(ctx, session.AccountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrUnauthenticated
	}
	return account, nil
}

func (a *AuthService) resolveIDPToken(ctx context.Context, token string) (*db_models.Account, error) {
	if a.idp == nil {
		return nil, utils.ErrUnauthenticated
	}

	claims, err := a.idp.Verify(token)
	if err != nil {
		return nil, utils.ErrUnauthenticated
	}

	account, err := a.accountRepo.FindByExternalID(ctx, claims.Subject)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account != nil {
		return account, nil
	}

	// First sight of a verified provider identity provisions the account;
	// the webhook reconciler keeps it current afterwards.
	account, err = a.accountRepo.UpsertByExternalID(ctx, &db_models.Account{
		ExternalID: claims.Subject,
		Email:      strings.ToLower(claims.Email),
		Name:       claims.Name,
	})
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return account, nil
}

func (a *AuthService) RevokeSession(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return utils.ErrUnauthenticated
	}
	if err := a.sessionRepo.RevokeByToken(ctx, token); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}
