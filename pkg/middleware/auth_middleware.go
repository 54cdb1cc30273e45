package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"musegen/internal/services"
	"musegen/pkg/utils"
)

// IdentityMiddleware resolves the bearer credential through the auth service,
// which picks the right scheme by credential shape. Handlers downstream only
// ever see the resolved account id.
func IdentityMiddleware(auth services.AuthServiceInterface) gin.HandlerFunc {

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		credential := strings.TrimPrefix(authHeader, "Bearer ")
		account, err := auth.ResolveIdentity(c.Request.Context(), credential)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired credential")
			c.Abort()
			return
		}

		c.Set("account_id", account.ID.String())
		c.Set("account_email", account.Email)
		c.Next()
	}
}
