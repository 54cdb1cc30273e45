package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"musegen/internal/services"
	"musegen/pkg/utils"
)

const maxWebhookBodyBytes = int64(65536)

type WebhookController struct {
	webhookService services.WebhookServiceInterface
}

func NewWebhookController(webhookService services.WebhookServiceInterface) *WebhookController {
	return &WebhookController{webhookService: webhookService}
}

func readWebhookBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Failed to read request body")
		return nil, false
	}
	return body, true
}

// HandleIdentity receives identity-provider lifecycle events. The signature
// over the raw body is the only authentication on this route.
func (w *WebhookController) HandleIdentity(c *gin.Context) {
	body, ok := readWebhookBody(c)
	if !ok {
		return
	}

	headers := services.IdentityHeaders{
		MessageID: c.GetHeader("webhook-id"),
		Timestamp: c.GetHeader("webhook-timestamp"),
		Signature: c.GetHeader("webhook-signature"),
	}

	if err := w.webhookService.HandleIdentityEvent(c.Request.Context(), body, headers); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (w *WebhookController) HandleBilling(c *gin.Context) {
	body, ok := readWebhookBody(c)
	if !ok {
		return
	}

	signature := c.GetHeader("X-Billing-Signature")
	if err := w.webhookService.HandleBillingEvent(c.Request.Context(), body, signature); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
