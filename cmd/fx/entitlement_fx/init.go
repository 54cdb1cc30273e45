package entitlement_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"musegen/internal/repositories"
	"musegen/internal/services"
)

var Module = fx.Provide(
	provideUsageRepo,
	provideEntitlementService,
	providePlanService,
)

func provideUsageRepo(db *gorm.DB) repositories.UsageRepository {
	return repositories.NewUsageRepository(db)
}

func provideEntitlementService(
	accountRepo repositories.AccountRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	usageRepo repositories.UsageRepository,
) services.EntitlementServiceInterface {
	return services.NewEntitlementService(accountRepo, subscriptionRepo, usageRepo)
}

func providePlanService() services.PlanServiceInterface {
	return services.NewPlanService()
}
