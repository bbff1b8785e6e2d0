package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline' https://d3js.org; style-src 'self' 'unsafe-inline'; connect-src 'self' ws: wss:")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// OriginAllowed reports whether a cross-origin browser client may call the
// API. An empty allow list admits no one.
func OriginAllowed(allowedOrigins []string, origin string) bool {
	normalizedOrigin := strings.TrimRight(origin, "/")
	if normalizedOrigin == "" {
		return false
	}

	for _, o := range allowedOrigins {
		trimmed := strings.TrimRight(strings.TrimSpace(o), "/")
		if trimmed == "" {
			continue
		}
		if trimmed == "*" || normalizedOrigin == trimmed {
			return true
		}
		// Bare host entries match any scheme and port-less host
		if !strings.Contains(trimmed, "://") {
			if parsed, err := url.Parse(normalizedOrigin); err == nil && parsed.Hostname() == trimmed {
				return true
			}
		}
	}
	return false
}

// SameOrigin reports whether origin names the host the request was sent to
func SameOrigin(r *http.Request, origin string) bool {
	u, err := url.Parse(origin)
	return err == nil && u.Host != "" && strings.EqualFold(u.Host, r.Host)
}

// CORSMiddleware configures CORS with security restrictions
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if OriginAllowed(allowedOrigins, origin) {
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Origin", strings.TrimRight(origin, "/"))
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SecurityLogger logs security events. A nil *SecurityLogger logs nothing.
type SecurityLogger struct {
	logger *slog.Logger
}

// NewSecurityLogger creates a new security logger
func NewSecurityLogger(logger *slog.Logger) *SecurityLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SecurityLogger{logger: logger.With("component", "security")}
}

// LogFailedAuth logs failed authentication attempts
func (sl *SecurityLogger) LogFailedAuth(ip string, reason string) {
	if sl == nil {
		return
	}
	sl.logger.Warn("[SECURITY] failed authentication", "ip", ip, "reason", reason)
}

// LogRateLimited logs a request rejected by the rate limiter
func (sl *SecurityLogger) LogRateLimited(ip string) {
	if sl == nil {
		return
	}
	sl.logger.Warn("[SECURITY] rate limit exceeded", "ip", ip)
}

// LogAccessDenied logs a request from a non-whitelisted IP
func (sl *SecurityLogger) LogAccessDenied(ip string) {
	if sl == nil {
		return
	}
	sl.logger.Warn("[SECURITY] access denied for non-whitelisted IP", "ip", ip)
}

// LogWebSocketConnected logs successful WebSocket connections
func (sl *SecurityLogger) LogWebSocketConnected(ip string, clientName string) {
	if sl == nil {
		return
	}
	sl.logger.Info("[SECURITY] websocket connected", "ip", ip, "client", clientName)
}
