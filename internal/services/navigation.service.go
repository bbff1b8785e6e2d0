package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"fsgraph/internal/models"
	"fsgraph/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Crawl depths: the load default and the fixed expand and parent depths
const (
	DefaultLoadDepth = 2
	ExpandDepth      = 1
	AscendDepth      = 2
)

// NavigationConfig holds the values the navigation layer is started with
type NavigationConfig struct {
	// HomeDir is the root used when a load request names no path.
	HomeDir string
	// DefaultDepth applies when a load request names no depth. Unset (zero
	// or less) selects DefaultLoadDepth; requests may still ask for depth 0.
	DefaultDepth int
	// MaxDepth bounds the depth a load request may ask for.
	MaxDepth int
	// Timeout bounds each operation; zero disables the deadline.
	Timeout time.Duration
}

// NavigationService implements load, expand and parent on top of the
// crawler and projector. It keeps no per-request state.
type NavigationService struct {
	crawler *Crawler
	cfg     NavigationConfig
	metrics *telemetry.NavigationMetrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewNavigationService wires a navigation service. metrics may be nil.
func NewNavigationService(crawler *Crawler, cfg NavigationConfig, metrics *telemetry.NavigationMetrics, logger *slog.Logger) *NavigationService {
	if cfg.DefaultDepth <= 0 {
		cfg.DefaultDepth = DefaultLoadDepth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NavigationService{
		crawler: crawler,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With("component", "navigation"),
		tracer:  otel.Tracer("fsgraph/navigation"),
	}
}

// HomeDir returns the configured default root
func (n *NavigationService) HomeDir() string {
	return n.cfg.HomeDir
}

// LoadRoot crawls req.Path (the home directory when empty) at req.Depth
// (the default depth when nil)
func (n *NavigationService) LoadRoot(ctx context.Context, req models.LoadRootRequest) (*models.NavigationResult, error) {
	depth := n.cfg.DefaultDepth
	if req.Depth != nil {
		depth = *req.Depth
	}
	if depth < 0 || (n.cfg.MaxDepth > 0 && depth > n.cfg.MaxDepth) {
		n.metrics.ObserveCrawl(models.OpLoadRoot, telemetry.StatusInvalid, 0, 0, nil)
		return nil, fmt.Errorf("%w: %d (allowed 0-%d)", ErrInvalidDepth, depth, n.cfg.MaxDepth)
	}

	path := req.Path
	if path == "" {
		path = n.cfg.HomeDir
	}
	return n.run(ctx, models.OpLoadRoot, n.Resolve(path), depth)
}

// ExpandNode crawls one level below path
func (n *NavigationService) ExpandNode(ctx context.Context, path string) (*models.NavigationResult, error) {
	if path == "" {
		n.metrics.ObserveCrawl(models.OpExpand, telemetry.StatusInvalid, 0, 0, nil)
		return nil, ErrMissingPath
	}
	return n.run(ctx, models.OpExpand, n.Resolve(path), ExpandDepth)
}

// Ascend crawls the parent of path. The parent of a filesystem root is the
// root itself.
func (n *NavigationService) Ascend(ctx context.Context, path string) (*models.NavigationResult, error) {
	if path == "" {
		n.metrics.ObserveCrawl(models.OpAscend, telemetry.StatusInvalid, 0, 0, nil)
		return nil, ErrMissingPath
	}
	return n.run(ctx, models.OpAscend, filepath.Dir(n.Resolve(path)), AscendDepth)
}

// Resolve expands a leading ~ against the home directory and makes path
// absolute against the working directory
func (n *NavigationService) Resolve(path string) string {
	if path == "~" {
		path = n.cfg.HomeDir
	} else if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		path = filepath.Join(n.cfg.HomeDir, path[2:])
	}
	return cleanPath(path)
}

func (n *NavigationService) run(ctx context.Context, op models.Operation, root string, depth int) (*models.NavigationResult, error) {
	ctx, span := n.tracer.Start(ctx, "navigation."+string(op), trace.WithAttributes(
		attribute.String("fs.path", root),
		attribute.Int("fs.depth", depth),
	))
	defer span.End()

	if n.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := n.crawler.Crawl(ctx, root, depth)
	elapsed := time.Since(start)
	if err != nil {
		var skips []models.Skip
		if result != nil {
			skips = result.Skips
		}
		n.metrics.ObserveCrawl(op, errorStatus(err), elapsed, 0, skips)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		n.logger.Warn("navigation failed", "operation", op, "path", root, "error", err)
		return nil, err
	}

	graph := Project(result.Root)
	n.metrics.ObserveCrawl(op, telemetry.StatusSuccess, elapsed, len(graph.Nodes), result.Skips)
	span.SetAttributes(
		attribute.Int("fs.nodes", len(graph.Nodes)),
		attribute.Int("fs.skips", len(result.Skips)),
	)
	n.logger.Debug("navigation complete",
		"operation", op,
		"path", root,
		"depth", depth,
		"nodes", len(graph.Nodes),
		"skipped", len(result.Skips),
		"elapsed", elapsed,
	)

	return &models.NavigationResult{
		Operation: op,
		Path:      root,
		Graph:     graph,
		Skips:     result.Skips,
	}, nil
}

func errorStatus(err error) string {
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, context.Canceled):
		return telemetry.StatusTimeout
	case errors.Is(err, ErrInvalidDepth):
		return telemetry.StatusInvalid
	default:
		return telemetry.StatusAccessError
	}
}
