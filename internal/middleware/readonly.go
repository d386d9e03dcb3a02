package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/internal/common"
)

// ReadOnly rejects every mutating request when the instance runs in public
// read-only mode. Safe methods pass through untouched.
func ReadOnly(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		common.ErrorResponse(c, http.StatusForbidden, "this instance is read-only", nil)
		c.Abort()
	}
}
