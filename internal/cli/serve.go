package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fsgraph/internal/routes"
	"fsgraph/internal/services"
	"fsgraph/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const (
	volumeCacheTTL  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

var (
	serveHost      string
	servePort      int
	serveStaticDir string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and WebSocket API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config and $PORT)")
	serveCmd.Flags().StringVar(&serveStaticDir, "static-dir", "", "directory of static UI assets to serve")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveStaticDir != "" {
		cfg.Server.StaticDir = serveStaticDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, telemetry.TracingConfig{
		ServiceName:  cfg.Telemetry.ServiceName,
		Exporter:     cfg.Telemetry.TraceExporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("tracing shutdown failed", "error", err)
		}
	}()

	var auth *services.AuthService
	if cfg.Auth.Enabled {
		if auth, err = newAuth(cfg, logger); err != nil {
			return err
		}
	}

	metrics := telemetry.NewNavigationMetrics(prometheus.DefaultRegisterer)
	nav := newNavigation(cfg, metrics, logger)
	hub := services.NewWebSocketHub(nav, metrics, logger)

	router, err := routes.NewRouter(routes.Options{
		Navigation:     nav,
		Volumes:        services.NewVolumeCache(volumeCacheTTL),
		Hub:            hub,
		Metrics:        telemetry.Handler(prometheus.DefaultGatherer),
		ServiceName:    cfg.Telemetry.ServiceName,
		StaticDir:      cfg.Server.StaticDir,
		Auth:           auth,
		AllowedOrigins: cfg.Origins(),
		AllowedIPs:     cfg.Security.AllowedIPs,
		RateLimitRPS:   cfg.Security.RateLimitRPS,
		RateLimitBurst: cfg.Security.RateLimitBurst,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("fsgraph listening", "addr", srv.Addr, "home", cfg.HomeDir, "tls", cfg.Server.TLS.Enabled)
		if cfg.Server.TLS.Enabled {
			errCh <- srv.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			errCh <- srv.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	hub.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
