package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	userService "saludagenda/services/user"
)

// Context keys set by SessionAuthMiddleware for downstream handlers.
const (
	CtxUser   = "currentUser"
	CtxUserID = "currentUserID"
	CtxRole   = "currentRole"
)

// SessionAuthMiddleware resolves the bearer token to a live session and puts
// the account on the request context. Handlers read the resolved ids from
// there; the scheduling core never sees tokens.
func SessionAuthMiddleware(users userService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		account, err := users.CurrentSession(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.Set(CtxUser, *account)
		c.Set(CtxUserID, account.ID)
		c.Set(CtxRole, account.Role)
		c.Next()
	}
}
