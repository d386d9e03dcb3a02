package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/internal/middleware"
	"github.com/lingora/lingora-backend/internal/service"
)

// AuthHandler serves login, token refresh and the current-user endpoint
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "invalid credentials", err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}

	resp, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "invalid refresh token", err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(middleware.GetUserID(c))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, user, nil)
}
