package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/internal/common"
)

// RequireAdmin rejects requests whose token lacks the admin flag. Must run
// after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			common.ErrorResponse(c, http.StatusForbidden, "admin privileges required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
