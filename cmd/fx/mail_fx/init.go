package mail_fx

import (
	"log"
	"os"
	"strconv"

	"go.uber.org/fx"

	"musegen/internal/services"
)

var Module = fx.Provide(
	provideMailService)

func provideMailService() services.IMailService {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}

	mail, err := services.NewSMTPMailService(services.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
		FromName: os.Getenv("SMTP_FROM_NAME"),
		AppName:  "musegen",
	})
	if err != nil {
		log.Fatalf("Failed to init mail service: %v", err)
	}
	return mail
}
