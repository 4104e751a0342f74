// internal/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/agrimarket-backend/internal/config"
	"github.com/javajoker/agrimarket-backend/internal/i18n"
	"github.com/javajoker/agrimarket-backend/internal/middleware"
	"github.com/javajoker/agrimarket-backend/internal/models"
	"github.com/javajoker/agrimarket-backend/internal/services"
	"github.com/javajoker/agrimarket-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	sessions    services.SessionStore
	cookie      config.SessionConfig
}

func NewAuthHandler(authService *services.AuthService, sessions services.SessionStore, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		cookie:      cookie,
	}
}

// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusCreated, i18n.T(lang, i18n.KeyAuthRegisterSuccess))
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.startSession(c, user, i18n.KeyAuthLoginSuccess)
}

// POST /api/google-login
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req services.FederatedLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.FederatedLogin(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.startSession(c, user, i18n.KeyAuthGoogleLoginSuccess)
}

// startSession replaces any session the client already holds.
func (h *AuthHandler) startSession(c *gin.Context, user *models.User, messageKey string) {
	lang := utils.GetLangFromContext(c)
	ctx := c.Request.Context()

	if old := middleware.SessionToken(c); old != "" {
		if err := h.sessions.Destroy(ctx, old); err != nil {
			logrus.WithError(err).Warn("Failed to drop previous session")
		}
	}

	token, err := h.sessions.Create(ctx, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setCookie(c, token, 0)

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"user":    user,
	})
}

// POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if token := middleware.SessionToken(c); token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			respondError(c, err)
			return
		}
	}
	h.setCookie(c, "", -1)

	utils.MessageResponse(c, http.StatusOK, i18n.T(lang, i18n.KeyAuthLogoutSuccess))
}

// GET /api/check_session
func (h *AuthHandler) CheckSession(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.SuccessResponse(c, gin.H{"logged_in": false})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"logged_in": true,
		"user":      user,
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, value, maxAge, "/", "", h.cookie.CookieSecure, true)
}
