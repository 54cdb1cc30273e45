package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"musegen/internal/models/db_models"
	"musegen/internal/plans"
	"musegen/internal/repositories"
	"musegen/pkg/utils"
)

// WebhookSecrets holds the per-provider shared secrets used to authenticate
// the webhook channel; there is no session token on these requests.
type WebhookSecrets struct {
	IdentitySecret string
	BillingSecret  string
}

type IdentityHeaders struct {
	MessageID string
	Timestamp string
	Signature string
}

type WebhookServiceInterface interface {
	HandleIdentityEvent(ctx context.Context, payload []byte, headers IdentityHeaders) error
	HandleBillingEvent(ctx context.Context, payload []byte, signature string) error
}

type WebhookService struct {
	accountRepo      repositories.AccountRepository
	subscriptionRepo repositories.SubscriptionRepository
	mail             IMailService
	secrets          WebhookSecrets
}

func NewWebhookService(
	accountRepo repositories.AccountRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	mail IMailService,
	secrets WebhookSecrets,
) WebhookServiceInterface {
	return &WebhookService{
		accountRepo:      accountRepo,
		subscriptionRepo: subscriptionRepo,
		mail:             mail,
		secrets:          secrets,
	}
}

type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

func (w *WebhookService) HandleIdentityEvent(ctx context.Context, payload []byte, headers IdentityHeaders) error {
	err := utils.VerifyIdentitySignature(
		w.secrets.IdentitySecret,
		headers.MessageID, headers.Timestamp, headers.Signature,
		payload, time.Now(),
	)
	if err != nil {
		log.Printf("webhook: identity signature rejected msg=%s", headers.MessageID)
		return utils.ErrInvalidSignature
	}

	var event identityEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Printf("webhook: malformed identity payload msg=%s: %v", headers.MessageID, err)
		return utils.ErrMalformedEvent
	}

	switch event.Type {
	case "user.created":
		return w.upsertIdentity(ctx, event, true)
	case "user.updated":
		return w.upsertIdentity(ctx, event, false)
	case "user.deleted":
		if event.Data.ID == "" {
			return utils.ErrMalformedEvent
		}
		if err := w.accountRepo.DeleteCascadeByExternalID(ctx, event.Data.ID); err != nil {
			return utils.ErrDatabaseError
		}
		return nil
	default:
		// Unknown event types ack as no-ops so new provider events never
		// poison the delivery retry queue.
		log.Printf("webhook: ignoring identity event type %q", event.Type)
		return nil
	}
}

func (w *WebhookService) upsertIdentity(ctx context.Context, event identityEvent, created bool) error {
	if event.Data.ID == "" {
		return utils.ErrMalformedEvent
	}

	email := ""
	if len(event.Data.EmailAddresses) > 0 {
		email = strings.ToLower(event.Data.EmailAddresses[0].EmailAddress)
	}
	name := strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName)

	account, err := w.accountRepo.UpsertByExternalID(ctx, &db_models.Account{
		ExternalID: event.Data.ID,
		Email:      email,
		Name:       name,
	})
	if err != nil {
		return utils.ErrDatabaseError
	}

	if created {
		if err := w.ensureDefaultSubscription(ctx, account.ID); err != nil {
			return err
		}
		// Best effort only; a failed mail must not make the provider retry.
		if email != "" && w.mail != nil {
			if err := w.mail.SendWelcome(email, name); err != nil {
				log.Printf("webhook: welcome mail failed for %s: %v", email, err)
			}
		}
	}

	return nil
}

func (w *WebhookService) ensureDefaultSubscription(ctx context.Context, accountID uuid.UUID) error {
	existing, err := w.subscriptionRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing != nil {
		return nil
	}

	sub := &db_models.Subscription{
		AccountID: accountID,
		PlanCode:  plans.CodeStarter,
		Status:    db_models.SubStatusActive,
	}
	if err := w.subscriptionRepo.UpsertByAccountID(ctx, sub); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

type billingEvent struct {
	Type string `json:"type"`
	Data struct {
		AccountID      string `json:"account_id"`
		PlanCode       string `json:"plan_code"`
		Status         string `json:"status"`
		CustomerID     string `json:"customer_id"`
		SubscriptionID string `json:"subscription_id"`
	} `json:"data"`
}

func (w *WebhookService) HandleBillingEvent(ctx context.Context, payload []byte, signature string) error {
	if err := utils.VerifyBillingSignature(w.secrets.BillingSecret, payload, signature); err != nil {
		log.Printf("webhook: billing signature rejected")
		return utils.ErrInvalidSignature
	}

	var event billingEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Printf("webhook: malformed billing payload: %v", err)
		return utils.ErrMalformedEvent
	}

	switch event.Type {
	case "checkout.completed", "subscription.updated", "subscription.canceled":
	default:
		log.Printf("webhook: ignoring billing event type %q", event.Type)
		return nil
	}

	accountID, err := uuid.Parse(event.Data.AccountID)
	if err != nil {
		return utils.ErrMalformedEvent
	}
	account, err := w.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		// Account may arrive on a later identity event; ack so the provider
		// does not retry forever, and rely on its own replay tooling.
		log.Printf("webhook: billing event for unknown account %s", accountID)
		return nil
	}

	status := db_models.SubStatusActive
	switch event.Type {
	case "subscription.canceled":
		status = db_models.SubStatusCanceled
	case "subscription.updated":
		if event.Data.Status != "" {
			status = db_models.SubscriptionStatus(event.Data.Status)
		}
	}

	planCode := event.Data.PlanCode
	if planCode == "" {
		planCode = plans.CodeStarter
	}

	meta, _ := json.Marshal(map[string]string{"last_event": event.Type})
	sub := &db_models.Subscription{
		AccountID:          accountID,
		PlanCode:           planCode,
		Status:             status,
		Provider:           "billing",
		ProviderCustomerID: event.Data.CustomerID,
		ProviderSubID:      event.Data.SubscriptionID,
		Metadata:           datatypes.JSON(meta),
	}
	if err := w.subscriptionRepo.UpsertByAccountID(ctx, sub); err != nil {
		return utils.ErrDatabaseError
	}

	log.Printf("webhook: subscription upserted account=%s plan=%s status=%s", accountID, planCode, status)
	return nil
}
