// Package cli implements the fsgraph command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fsgraph/internal/config"
	"fsgraph/internal/logging"
	"fsgraph/internal/services"
	"fsgraph/internal/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	homeDir    string

	rootCmd = &cobra.Command{
		Use:   "fsgraph",
		Short: "Explore a local filesystem as an interactive graph",
		Long: `fsgraph crawls a directory to a bounded depth and serves the result as a
node/link graph for browser rendering. It can also print a crawl as a tree
or as graph JSON.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $FSGRAPH_CONFIG or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "default root directory (default the user home)")

	rootCmd.AddCommand(serveCmd, treeCmd, graphCmd, tokenCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the config file and applies the persistent flags
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if homeDir != "" {
		cfg.HomeDir = homeDir
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	return logger
}

func newCrawler(cfg config.Config, logger *slog.Logger) *services.Crawler {
	return services.NewCrawler(services.CrawlerOptions{
		MaxEntries: cfg.Crawl.MaxEntries,
		Workers:    cfg.Crawl.Workers,
	}, logger)
}

func newNavigation(cfg config.Config, metrics *telemetry.NavigationMetrics, logger *slog.Logger) *services.NavigationService {
	return services.NewNavigationService(newCrawler(cfg, logger), services.NavigationConfig{
		HomeDir:      cfg.HomeDir,
		DefaultDepth: cfg.Crawl.DefaultDepth,
		MaxDepth:     cfg.Crawl.MaxDepth,
		Timeout:      cfg.Crawl.Timeout,
	}, metrics, logger)
}

// newAuth starts the token service, persisting a generated key next to
// the config file when none is configured
func newAuth(cfg config.Config, logger *slog.Logger) (*services.AuthService, error) {
	keyDir := ""
	if cfg.Auth.SecretKey == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve key directory: %w", err)
		}
		keyDir = filepath.Dir(p)
		if err := os.MkdirAll(keyDir, 0o700); err != nil {
			return nil, fmt.Errorf("create key directory: %w", err)
		}
	}
	return services.NewAuthService(cfg.Auth.SecretKey, keyDir, cfg.Auth.TokenExpiry, logger)
}
