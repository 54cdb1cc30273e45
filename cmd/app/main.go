package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"musegen/cmd/fx/account_fx"
	"musegen/cmd/fx/controllers_fx"
	"musegen/cmd/fx/db_fx"
	"musegen/cmd/fx/entitlement_fx"
	"musegen/cmd/fx/generation_fx"
	"musegen/cmd/fx/mail_fx"
	"musegen/cmd/fx/webhook_fx"
	"musegen/internal/api/controllers"
	"musegen/internal/services"
	"musegen/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	app := fx.New(
		db_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		entitlement_fx.Module,
		generation_fx.Module,
		webhook_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	authService services.AuthServiceInterface,
	authController *controllers.AuthController,
	accountController *controllers.AccountController,
	generationController *controllers.GenerationController,
	planController *controllers.PlanController,
	webhookController *controllers.WebhookController,
) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	authGroup := r.Group("/auth")
	authGroup.POST("/request-code", authController.RequestCode)
	authGroup.POST("/verify-code", authController.VerifyCode)
	authGroup.POST("/logout", authController.Logout)

	r.GET("/plans", planController.ListAllPlans)

	webhookGroup := r.Group("/webhooks")
	webhookGroup.POST("/identity", webhookController.HandleIdentity)
	webhookGroup.POST("/billing", webhookController.HandleBilling)

	authed := r.Group("/")
	authed.Use(middleware.IdentityMiddleware(authService))
	authed.GET("/me", accountController.Me)
	authed.POST("/generations", generationController.Generate)
	authed.GET("/generations", generationController.ListRecent)
	authed.POST("/prompts/enhance", generationController.EnhancePrompt)

	return r
}
