// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/agrimarket-backend/internal/i18n"
)

// I18nMiddleware picks the response language from Accept-Language.
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", negotiateLanguage(c.GetHeader("Accept-Language"), defaultLang))
		c.Next()
	}
}

// negotiateLanguage handles values like "en-US,en;q=0.9" by taking the
// first tag and falling back to its base language.
func negotiateLanguage(header, defaultLang string) string {
	if header == "" {
		return defaultLang
	}

	first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
	first = strings.ReplaceAll(first, "-", "_")
	if i18n.Supported(first) {
		return first
	}
	if base, _, found := strings.Cut(first, "_"); found && i18n.Supported(base) {
		return base
	}
	return defaultLang
}
