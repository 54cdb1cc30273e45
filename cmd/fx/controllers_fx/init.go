package controllers_fx

import (
	"go.uber.org/fx"

	"musegen/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAuthController),
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewGenerationController),
	fx.Provide(controllers.NewPlanController),
	fx.Provide(controllers.NewWebhookController))
