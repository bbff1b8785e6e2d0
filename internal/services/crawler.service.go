package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"fsgraph/internal/models"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxEntries is the per-folder cap on visible children
const DefaultMaxEntries = 100

// CrawlerOptions tunes a Crawler. Zero values select the defaults.
type CrawlerOptions struct {
	MaxEntries int
	Workers    int
}

// Crawler builds bounded directory trees. It holds no per-crawl state and is
// safe for concurrent use.
type Crawler struct {
	maxEntries int
	workers    int64
	logger     *slog.Logger

	stat    func(string) (os.FileInfo, error)
	readDir func(string) ([]os.DirEntry, error)
}

// NewCrawler creates a crawler with the given options
func NewCrawler(opts CrawlerOptions, logger *slog.Logger) *Crawler {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Workers <= 0 {
		opts.Workers = 4 * runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Crawler{
		maxEntries: opts.MaxEntries,
		workers:    int64(opts.Workers),
		logger:     logger.With("component", "crawler"),
		stat:       os.Stat,
		readDir:    os.ReadDir,
	}
}

// crawlState is shared by all goroutines of a single crawl
type crawlState struct {
	maxDepth int
	sem      *semaphore.Weighted

	// truncated is set when a folder within the depth budget was left
	// unlisted because the context ended
	truncated atomic.Bool

	mu    sync.Mutex
	skips []models.Skip
}

func (st *crawlState) skip(path string, reason models.SkipReason, err error) {
	st.mu.Lock()
	st.skips = append(st.skips, models.Skip{Path: path, Reason: reason, Error: err.Error()})
	st.mu.Unlock()
}

// ancestor is one link of the chain from the crawl root to the folder being listed
type ancestor struct {
	info   os.FileInfo
	parent *ancestor
}

func (a *ancestor) contains(info os.FileInfo) bool {
	for ; a != nil; a = a.parent {
		if os.SameFile(a.info, info) {
			return true
		}
	}
	return false
}

var errCycle = errors.New("directory already visited on this path")

// Crawl stats path and, if it is a folder, walks it down to maxDepth levels.
// Only a failure to stat path itself is returned as an error; unreadable
// descendants are left out and recorded in the result's Skips.
//
// If ctx ends before every folder within maxDepth was listed, the partial tree
// is returned together with an AccessError for the root. A walk that finished
// before ctx ended is complete and returns no error.
func (c *Crawler) Crawl(ctx context.Context, path string, maxDepth int) (*models.CrawlResult, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, maxDepth)
	}

	root := cleanPath(path)
	info, err := c.stat(root)
	if err != nil {
		return nil, &AccessError{Path: root, Err: err}
	}

	st := &crawlState{
		maxDepth: maxDepth,
		sem:      semaphore.NewWeighted(c.workers),
	}
	result := &models.CrawlResult{
		Root: c.visit(ctx, st, root, info, 0, nil),
	}

	sort.Slice(st.skips, func(i, j int) bool {
		return st.skips[i].Path < st.skips[j].Path
	})
	result.Skips = st.skips
	if result.Skips == nil {
		result.Skips = []models.Skip{}
	}

	if st.truncated.Load() {
		result.Truncated = true
		ctxErr := ctx.Err()
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			ctxErr = fmt.Errorf("%w: %w", ErrTimeout, ctxErr)
		}
		return result, &AccessError{Path: root, Err: ctxErr}
	}
	return result, nil
}

// visit builds the entry for an already statted path and fills in its children
func (c *Crawler) visit(ctx context.Context, st *crawlState, path string, info os.FileInfo, depth int, chain *ancestor) models.DirectoryEntry {
	entry := newEntry(path, info)
	if !info.IsDir() || depth >= st.maxDepth {
		return entry
	}
	if ctx.Err() != nil {
		st.truncated.Store(true)
		return entry
	}

	dirents, err := c.readDir(path)
	if err != nil {
		c.logger.Warn("cannot read directory", "path", path, "error", err)
		st.skip(path, models.SkipListFailed, err)
		return entry
	}

	names := visibleNames(dirents, c.maxEntries)
	chain = &ancestor{info: info, parent: chain}
	children := make([]*models.DirectoryEntry, len(names))

	var g errgroup.Group
	for i, name := range names {
		i := i
		childPath := filepath.Join(path, name)
		crawlChild := func() error {
			children[i] = c.visitChild(ctx, st, childPath, depth+1, chain)
			return nil
		}
		if st.sem.TryAcquire(1) {
			g.Go(func() error {
				defer st.sem.Release(1)
				return crawlChild()
			})
			continue
		}
		// Pool is saturated; crawl on this goroutine instead of waiting for a slot.
		_ = crawlChild()
	}
	_ = g.Wait()

	for _, child := range children {
		if child != nil {
			entry.Children = append(entry.Children, *child)
		}
	}
	return entry
}

// visitChild stats one child. Failures become skips and yield nil.
func (c *Crawler) visitChild(ctx context.Context, st *crawlState, path string, depth int, chain *ancestor) *models.DirectoryEntry {
	info, err := c.stat(path)
	if err != nil {
		c.logger.Warn("cannot access entry", "path", path, "error", err)
		st.skip(path, skipReason(err), err)
		return nil
	}
	if info.IsDir() && chain.contains(info) {
		c.logger.Warn("skipping directory cycle", "path", path)
		st.skip(path, models.SkipCycle, errCycle)
		return nil
	}
	entry := c.visit(ctx, st, path, info, depth, chain)
	return &entry
}

func newEntry(path string, info os.FileInfo) models.DirectoryEntry {
	name := filepath.Base(path)
	if name == "" || name == "." {
		name = string(filepath.Separator)
	}
	kind := models.KindFile
	if info.IsDir() {
		kind = models.KindFolder
	}
	return models.DirectoryEntry{
		Path:     path,
		Name:     name,
		Kind:     kind,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		Children: []models.DirectoryEntry{},
	}
}

// visibleNames drops hidden entries, then keeps at most limit names in listing order
func visibleNames(dirents []os.DirEntry, limit int) []string {
	names := make([]string, 0, min(len(dirents), limit))
	for _, d := range dirents {
		if isHidden(d.Name()) {
			continue
		}
		names = append(names, d.Name())
		if len(names) == limit {
			break
		}
	}
	return names
}

func skipReason(err error) models.SkipReason {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return models.SkipPermission
	case errors.Is(err, fs.ErrNotExist):
		return models.SkipNotExist
	default:
		return models.SkipOther
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func cleanPath(path string) string {
	clean := filepath.Clean(path)
	abs, err := filepath.Abs(clean)
	if err != nil {
		return clean
	}
	return abs
}
