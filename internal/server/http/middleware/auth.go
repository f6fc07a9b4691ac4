package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/bookmart/orders/internal/domain/errors"
)

const (
	// UserIDContextKey is a gin context key for the authenticated user identifier.
	UserIDContextKey = "userID"
	// AuthTokenContextKey keeps the raw bearer credential for onward calls.
	AuthTokenContextKey = "authToken"

	authCookieName = "bookmart_token"
)

// TokenParser verifies a bearer credential.
type TokenParser interface {
	ParseToken(token string) (int64, error)
}

// AuthRequired ensures the caller presents a valid credential before
// reaching a handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		userID, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, domainErrors.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(UserIDContextKey, userID)
		c.Set(AuthTokenContextKey, token)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}
