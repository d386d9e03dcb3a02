package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/pkg/jwt"
)

// Context keys set by the auth middleware
const (
	CtxUserID   = "user_id"
	CtxUserName = "user_name"
	CtxIsAdmin  = "is_admin"
)

// JWTAuth requires a valid Bearer token and stores its claims on the context
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractClaims(c, jwtManager)
		if !ok {
			common.ErrorResponse(c, http.StatusUnauthorized, "authentication required", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserName, claims.Name)
		c.Set(CtxIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// OptionalJWTAuth stores claims when a valid token is present but never
// rejects the request
func OptionalJWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := extractClaims(c, jwtManager); ok {
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUserName, claims.Name)
			c.Set(CtxIsAdmin, claims.IsAdmin)
		}
		c.Next()
	}
}

func extractClaims(c *gin.Context, jwtManager *jwt.Manager) (*jwt.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}

	claims, err := jwtManager.VerifyToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

// GetUserID returns the authenticated user id, empty when anonymous
func GetUserID(c *gin.Context) string {
	if v, exists := c.Get(CtxUserID); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetActorID returns the authenticated user id as a nullable reference for
// attribution fields, nil when anonymous
func GetActorID(c *gin.Context) *string {
	if id := GetUserID(c); id != "" {
		return &id
	}
	return nil
}

// IsAdmin reports whether the authenticated user has the admin flag
func IsAdmin(c *gin.Context) bool {
	if v, exists := c.Get(CtxIsAdmin); exists {
		if admin, ok := v.(bool); ok {
			return admin
		}
	}
	return false
}
