package middlewares

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cloudinary-gateway/internal/interfaces/httpserver/responses"
)

// BearerAuth requires an exact-match bearer token on every request it
// guards. A mismatch aborts with 401 before any handler logic runs.
func BearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, credential, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			responses.HandleAuthError(c, "missing bearer token")
			return
		}
		if subtle.ConstantTimeCompare([]byte(credential), []byte(token)) != 1 {
			responses.HandleAuthError(c, "invalid bearer token")
			return
		}
		c.Next()
	}
}

// RequestLogger logs completed HTTP requests.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= 400 {
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Str("client_ip", c.ClientIP()).
			Msg("request completed")
	}
}
