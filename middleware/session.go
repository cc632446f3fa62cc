package middleware

import (
	"net/http"

	"bikereg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SessionCookieName = "bikereg_session"
	// SessionIDKey is the gin context key holding the wizard session id.
	SessionIDKey = "sessionID"
)

// SessionMiddleware resolves the wizard session id from the signed cookie,
// issuing a fresh one when the cookie is missing or invalid.
func SessionMiddleware(tokens *utils.SessionTokens, maxAge int, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(SessionCookieName); err == nil && raw != "" {
			if id, err := tokens.ExtractIDFromToken(raw); err == nil {
				c.Set(SessionIDKey, id)
				c.Next()
				return
			}
			zap.L().Debug("discarding invalid session cookie", zap.String("ip", getClientIP(c)))
		}

		id := uuid.NewString()
		token, err := tokens.GenerateToken(id)
		if err != nil {
			zap.L().Error("failed to sign session token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse{Message: "Internal Server Error"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, token, maxAge, "/", "", secure, true)
		c.Set(SessionIDKey, id)
		c.Next()
	}
}

// SessionID returns the id set by SessionMiddleware.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
