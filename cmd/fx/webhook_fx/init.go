package webhook_fx

import (
	"os"

	"go.uber.org/fx"

	"musegen/internal/repositories"
	"musegen/internal/services"
)

var Module = fx.Provide(
	provideWebhookService)

func provideWebhookService(
	accountRepo repositories.AccountRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	mailService services.IMailService,
) services.WebhookServiceInterface {
	secrets := services.WebhookSecrets{
		IdentitySecret: os.Getenv("IDENTITY_WEBHOOK_SECRET"),
		BillingSecret:  os.Getenv("BILLING_WEBHOOK_SECRET"),
	}
	return services.NewWebhookService(accountRepo, subscriptionRepo, mailService, secrets)
}
