package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"musegen/internal/models/request_models"
	"musegen/internal/models/response_models"
	"musegen/internal/services"
	"musegen/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
}

func NewAuthController(authService services.AuthServiceInterface) *AuthController {
	return &AuthController{authService: authService}
}

// RequestCode sends a one-time sign-in code by email. The code itself never
// appears in the response body.
func (a *AuthController) RequestCode(c *gin.Context) {
	var request request_models.RequestCodeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := a.authService.RequestCode(c.Request.Context(), request.Email, request.Name); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Code sent")
}

func (a *AuthController) VerifyCode(c *gin.Context) {
	var request request_models.VerifyCodeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	token, err := a.authService.VerifyCode(c.Request.Context(), request.Email, request.Otp)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.VerifyCodeResponse{Token: token}, "Signed in")
}

func (a *AuthController) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")

	if err := a.authService.RevokeSession(c.Request.Context(), token); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Signed out")
}
