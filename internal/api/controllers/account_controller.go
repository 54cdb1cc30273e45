package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"musegen/internal/models/response_models"
	"musegen/internal/services"
	"musegen/pkg/utils"
)

type AccountController struct {
	entitlementService services.EntitlementServiceInterface
}

func NewAccountController(entitlementService services.EntitlementServiceInterface) *AccountController {
	return &AccountController{entitlementService: entitlementService}
}

// Me returns the caller's account plus its current entitlement snapshot.
func (a *AccountController) Me(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	ent, usage, err := a.entitlementService.Snapshot(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	resp := response_models.AccountResponse{
		ID:                 accountID.String(),
		Email:              c.GetString("account_email"),
		PlanCode:           ent.PlanCode,
		SubscriptionStatus: string(ent.Status),
		Limits:             ent.Limits,
	}
	if usage != nil {
		resp.Usage = response_models.UsageResponse{
			ImagesUsed: usage.ImagesUsed,
			VideosUsed: usage.VideosUsed,
		}
	}

	utils.RespondSuccess(c, resp, "")
}
