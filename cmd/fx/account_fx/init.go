package account_fx

import (
	"log"
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"musegen/internal/repositories"
	"musegen/internal/services"
	"musegen/pkg/utils"
)

var Module = fx.Provide(
	provideAccountRepo,
	provideSubscriptionRepo,
	provideCodeRepo,
	provideSessionRepo,
	provideIDPVerifier,
	provideAuthService,
)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideCodeRepo(db *gorm.DB) repositories.CodeRepository {
	return repositories.NewCodeRepository(db)
}

func provideSessionRepo(db *gorm.DB) repositories.SessionRepository {
	return repositories.NewSessionRepository(db)
}

func provideIDPVerifier() utils.IDPVerifier {
	issuer := os.Getenv("IDP_ISSUER")
	audience := os.Getenv("IDP_AUDIENCE")
	if issuer == "" || audience == "" {
		// Session tokens keep working without a configured provider.
		log.Println("IDP_ISSUER/IDP_AUDIENCE not set, third-party sign-in disabled")
		return nil
	}

	verifier, err := utils.NewJWKSVerifier(issuer, audience, os.Getenv("IDP_JWKS_URL"))
	if err != nil {
		log.Fatalf("Failed to init IDP verifier: %v", err)
	}
	return verifier
}

func provideAuthService(
	accountRepo repositories.AccountRepository,
	codeRepo repositories.CodeRepository,
	sessionRepo repositories.SessionRepository,
	mailService services.IMailService,
	idp utils.IDPVerifier,
) services.AuthServiceInterface {
	return services.NewAuthService(accountRepo, codeRepo, sessionRepo, mailService, idp)
}
