package middleware

import (
	"net/http"
	"strings"

	"fsgraph/internal/services"

	"github.com/gin-gonic/gin"
)

// ClaimsKey is the gin context key holding validated token claims
const ClaimsKey = "claims"

// BearerToken extracts a token from the Authorization header, falling back
// to the token query parameter (browsers cannot set headers on WebSocket
// upgrades)
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return c.Query("token")
}

// AuthMiddleware rejects requests without a token auth accepts
func AuthMiddleware(auth *services.AuthService, security *SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		var reason string
		var claims *services.CustomClaims
		switch {
		case token == "":
			reason = "missing token"
		case !ValidTokenFormat(token):
			reason = "malformed token"
		default:
			var err error
			if claims, err = auth.ValidateToken(token); err != nil {
				reason = "invalid token: " + err.Error()
			}
		}

		if claims == nil {
			security.LogFailedAuth(c.ClientIP(), reason)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
