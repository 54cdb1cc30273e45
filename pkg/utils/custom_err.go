package utils

import "errors"

var (
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrAccountNotFound      = errors.New("account not found")

	ErrSubscriptionInactive = errors.New("subscription is not active")
	ErrQuotaExceeded        = errors.New("daily quota exceeded")

	ErrEmptyPrompt        = errors.New("prompt must not be empty")
	ErrInvalidConfig      = errors.New("invalid generation config")
	ErrUnknownFeature     = errors.New("unknown feature type")
	ErrGenerationProvider = errors.New("generation provider error")

	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("malformed webhook event")
	ErrDatabaseError    = errors.New("database error")
)
