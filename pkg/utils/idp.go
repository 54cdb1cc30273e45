package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

const idpLeeway = 30 * time.Second

// IDPClaims is the subset of identity-provider token claims the backend keys on.
type IDPClaims struct {
	Subject string
	Email   string
	Name    string
}

type IDPVerifier interface {
	Verify(tokenString string) (*IDPClaims, error)
}

// JWKSVerifier validates RS256-family access tokens issued by a third-party
// identity provider against its JWKS endpoint.
type JWKSVerifier struct {
	keyfunc keyfunc.Keyfunc
	parser  *jwt.Parser
}

func NewJWKSVerifier(issuer, audience, jwksURL string) (*JWKSVerifier, error) {
	issuer = strings.TrimSpace(issuer)
	if issuer == "" || audience == "" {
		return nil, errors.New("issuer and audience must be set")
	}
	if !strings.HasSuffix(issuer, "/") {
		issuer += "/"
	}
	if jwksURL == "" {
		jwksURL = issuer + ".well-known/jwks.json"
	}

	keyProvider, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to init JWKS keyfunc: %w", err)
	}

	parser := jwt.NewParser(
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithLeeway(idpLeeway),
		jwt.WithValidMethods([]string{
			jwt.SigningMethodRS256.Name,
			jwt.SigningMethodRS384.Name,
			jwt.SigningMethodRS512.Name,
		}),
	)

	return &JWKSVerifier{keyfunc: keyProvider, parser: parser}, nil
}

func (v *JWKSVerifier) Verify(tokenString string) (*IDPClaims, error) {
	token, err := v.parser.Parse(tokenString, v.keyfunc.Keyfunc)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	claims := &IDPClaims{
		Subject: claimString(mapClaims, "sub"),
		Email:   claimString(mapClaims, "email"),
		Name:    claimString(mapClaims, "name"),
	}
	if claims.Subject == "" {
		return nil, errors.New("token missing sub")
	}
	return claims, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if s, ok := claims[key].(string); ok {
		return s
	}
	return ""
}
