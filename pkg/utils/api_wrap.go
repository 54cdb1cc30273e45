package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps service-layer sentinel errors onto HTTP status codes.
// Anything unrecognized is reported as a generic internal error so provider or
// database detail never reaches the response body.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, ErrInvalidOrExpiredCode):
		RespondError(c, http.StatusBadRequest, "Invalid or expired code")
	case errors.Is(err, ErrEmptyPrompt):
		RespondError(c, http.StatusBadRequest, "Prompt must not be empty")
	case errors.Is(err, ErrUnknownFeature):
		RespondError(c, http.StatusBadRequest, "Unknown feature type")
	case errors.Is(err, ErrInvalidConfig):
		RespondError(c, http.StatusBadRequest, "Invalid generation config")
	case errors.Is(err, ErrQuotaExceeded):
		RespondError(c, http.StatusForbidden, "Daily quota exceeded")
	case errors.Is(err, ErrSubscriptionInactive):
		RespondError(c, http.StatusForbidden, "Subscription is not active")
	case errors.Is(err, ErrGenerationProvider):
		RespondError(c, http.StatusForbidden, "Generation failed, please try again later")
	case errors.Is(err, ErrAccountNotFound):
		RespondError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, ErrInvalidSignature):
		RespondError(c, http.StatusBadRequest, "Signature verification failed")
	case errors.Is(err, ErrMalformedEvent):
		RespondError(c, http.StatusBadRequest, "Malformed event payload")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
