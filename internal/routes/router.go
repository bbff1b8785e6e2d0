package routes

import (
	"log/slog"
	"net/http"

	"fsgraph/internal/controllers"
	"fsgraph/internal/middleware"
	"fsgraph/internal/services"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Options carries everything the router wires together
type Options struct {
	Navigation *services.NavigationService
	Volumes    *services.VolumeCache
	Hub        *services.WebSocketHub

	// Auth guards the API and WebSocket routes when non-nil
	Auth *services.AuthService

	// Metrics serves /metrics when non-nil
	Metrics http.Handler

	ServiceName    string
	StaticDir      string
	AllowedOrigins []string
	AllowedIPs     []string
	RateLimitRPS   float64
	RateLimitBurst int

	Logger *slog.Logger
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(opts Options) (*gin.Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	security := middleware.NewSecurityLogger(logger)
	allowList, err := middleware.NewIPAllowList(opts.AllowedIPs)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	if opts.ServiceName != "" {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	r.Use(middleware.IPAllowListMiddleware(allowList, security))
	if opts.RateLimitRPS > 0 {
		r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst), security))
	}

	r.GET("/health", controllers.HealthCheck)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	if opts.StaticDir != "" {
		r.NoRoute(serveStatic(opts.StaticDir))
	}

	protected := r.Group("")
	if opts.Auth != nil {
		protected.Use(middleware.AuthMiddleware(opts.Auth, security))
	}
	RegisterFilesystemRoutes(protected, opts.Navigation, opts.Volumes)
	if opts.Hub != nil {
		RegisterWebSocketRoutes(protected, opts.Hub, opts.AllowedOrigins, security)
	}

	return r, nil
}

// serveStatic serves the UI directory at the site root for any GET that no
// API route matched. Directory listings are disabled.
func serveStatic(dir string) gin.HandlerFunc {
	files := http.FileServer(gin.Dir(dir, false))
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	}
}
