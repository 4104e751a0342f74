// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/agrimarket-backend/internal/config"
	"github.com/javajoker/agrimarket-backend/internal/i18n"
	"github.com/javajoker/agrimarket-backend/internal/models"
	"github.com/javajoker/agrimarket-backend/internal/services"
	"github.com/javajoker/agrimarket-backend/internal/utils"
)

const (
	contextKeyUser  = "user"
	contextKeyToken = "session_token"
)

// UserLookup resolves the user bound to a session.
type UserLookup interface {
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
}

// LoadSession resolves the session cookie to a user. Unknown tokens and
// tokens whose user no longer exists leave the request anonymous and the
// cookie is expired.
func LoadSession(store services.SessionStore, users UserLookup, cookie config.SessionConfig) gin.HandlerFunc {
	expireCookie := func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie.CookieName, "", -1, "/", "", cookie.CookieSecure, true)
	}

	return func(c *gin.Context) {
		token, err := c.Cookie(cookie.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		c.Set(contextKeyToken, token)

		userID, err := store.Lookup(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrSessionNotFound) {
				expireCookie(c)
			} else {
				logrus.WithError(err).Error("Failed to look up session")
			}
			c.Next()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				expireCookie(c)
			} else {
				logrus.WithError(err).WithField("user_id", userID).Error("Failed to load session user")
			}
			c.Next()
			return
		}

		c.Set(contextKeyUser, user)
		c.Next()
	}
}

// AuthRequired rejects anonymous requests with 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			utils.UnauthorizedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthRequired))
			return
		}
		c.Next()
	}
}

// SellerRequired rejects anonymous requests with 401 and non-sellers with 403.
func SellerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.UnauthorizedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthRequired))
			return
		}
		if !user.IsSeller {
			utils.ForbiddenResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthForbidden))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved by LoadSession, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SessionToken returns the raw session cookie value, or "".
func SessionToken(c *gin.Context) string {
	return c.GetString(contextKeyToken)
}
