package services

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fsgraph/internal/models"
	"fsgraph/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNavigation(t *testing.T, home string) (*NavigationService, *telemetry.NavigationMetrics) {
	t.Helper()
	metrics := telemetry.NewNavigationMetrics(prometheus.NewRegistry())
	nav := NewNavigationService(NewCrawler(CrawlerOptions{}, quietLogger()), NavigationConfig{
		HomeDir:      home,
		DefaultDepth: 2,
		MaxDepth:     8,
		Timeout:      10 * time.Second,
	}, metrics, quietLogger())
	return nav, metrics
}

func nodeIDs(view models.GraphView) []string {
	ids := make([]string, 0, len(view.Nodes))
	for _, n := range view.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func intPtr(v int) *int { return &v }

func TestLoadRoot_DefaultsToHome(t *testing.T) {
	home := tempRoot(t)
	makeTree(t, home, "docs/a/deep.txt", "readme.md")
	nav, metrics := newTestNavigation(t, home)

	result, err := nav.LoadRoot(context.Background(), models.LoadRootRequest{})
	require.NoError(t, err)

	assert.Equal(t, models.OpLoadRoot, result.Operation)
	assert.Equal(t, home, result.Path)
	assert.Equal(t, home, result.Graph.Nodes[0].ID)
	assert.Equal(t, []string{
		home,
		filepath.Join(home, "docs"),
		filepath.Join(home, "docs", "a"),
		filepath.Join(home, "readme.md"),
	}, nodeIDs(result.Graph))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("load", telemetry.StatusSuccess)))
}

func TestLoadRoot_ExplicitPathAndDepth(t *testing.T) {
	home := tempRoot(t)
	makeTree(t, home, "data/photos/a.jpg", "data/notes.txt")
	nav, _ := newTestNavigation(t, home)

	result, err := nav.LoadRoot(context.Background(), models.LoadRootRequest{
		Path:  filepath.Join(home, "data"),
		Depth: intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(home, "data"),
		filepath.Join(home, "data", "notes.txt"),
		filepath.Join(home, "data", "photos"),
	}, nodeIDs(result.Graph))
	assert.Len(t, result.Graph.Links, 2)
}

func TestLoadRoot_TildeExpandsToHome(t *testing.T) {
	home := tempRoot(t)
	makeTree(t, home, "projects/x.go")
	nav, _ := newTestNavigation(t, home)

	result, err := nav.LoadRoot(context.Background(), models.LoadRootRequest{Path: "~/projects"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "projects"), result.Path)
}

func TestLoadRoot_InvalidDepth(t *testing.T) {
	nav, metrics := newTestNavigation(t, tempRoot(t))

	for _, depth := range []int{-1, 9} {
		_, err := nav.LoadRoot(context.Background(), models.LoadRootRequest{Depth: intPtr(depth)})
		assert.ErrorIs(t, err, ErrInvalidDepth)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("load", telemetry.StatusInvalid)))
}

func TestLoadRoot_MissingPath(t *testing.T) {
	home := tempRoot(t)
	nav, metrics := newTestNavigation(t, home)
	missing := filepath.Join(home, "gone")

	result, err := nav.LoadRoot(context.Background(), models.LoadRootRequest{Path: missing})
	assert.Nil(t, result)
	var accessErr *AccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, missing, accessErr.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("load", telemetry.StatusAccessError)))
}

func TestExpandNode_OneLevel(t *testing.T) {
	home := tempRoot(t)
	makeTree(t, home, "photos/a.jpg", "photos/b.jpg", "photos/2024/c.jpg")
	nav, _ := newTestNavigation(t, home)
	photos := filepath.Join(home, "photos")

	result, err := nav.ExpandNode(context.Background(), photos)
	require.NoError(t, err)

	assert.Equal(t, models.OpExpand, result.Operation)
	assert.Equal(t, []string{
		photos,
		filepath.Join(photos, "2024"),
		filepath.Join(photos, "a.jpg"),
		filepath.Join(photos, "b.jpg"),
	}, nodeIDs(result.Graph))
	for _, l := range result.Graph.Links {
		assert.Equal(t, photos, l.Source)
	}
}

func TestExpandNode_File(t *testing.T) {
	home := tempRoot(t)
	makeTree(t, home, "a.txt")
	nav, _ := newTestNavigation(t, home)

	result, err := nav.ExpandNode(context.Background(), filepath.Join(home, "a.txt"))
	require.NoError(t, err)
	assert.Len(t, result.Graph.Nodes, 1)
	assert.Empty(t, result.Graph.Links)
}

func TestExpandNode_EmptyPath(t *testing.T) {
	nav, _ := newTestNavigation(t, tempRoot(t))
	_, err := nav.ExpandNode(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingPath)
}

func TestAscend_CrawlsParent(t *testing.T) {
	home := tempRoot(t)
	makeTree(t, home, "data/photos/a.jpg", "data/notes.txt")
	nav, _ := newTestNavigation(t, home)

	result, err := nav.Ascend(context.Background(), filepath.Join(home, "data", "photos"))
	require.NoError(t, err)

	data := filepath.Join(home, "data")
	assert.Equal(t, models.OpAscend, result.Operation)
	assert.Equal(t, data, result.Path)
	assert.Equal(t, data, result.Graph.Nodes[0].ID)
	assert.Contains(t, nodeIDs(result.Graph), filepath.Join(data, "photos", "a.jpg"))
}

func TestAscend_FilesystemRootIsItsOwnParent(t *testing.T) {
	crawler := NewCrawler(CrawlerOptions{}, quietLogger())
	crawler.readDir = func(string) ([]os.DirEntry, error) { return nil, nil }
	nav := NewNavigationService(crawler, NavigationConfig{HomeDir: "/", DefaultDepth: 2}, nil, quietLogger())

	root := string(filepath.Separator)
	result, err := nav.Ascend(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, root, result.Path)
	assert.Equal(t, []string{root}, nodeIDs(result.Graph))
	assert.Equal(t, root, result.Graph.Nodes[0].Name)
}

func TestAscend_EmptyPath(t *testing.T) {
	nav, _ := newTestNavigation(t, tempRoot(t))
	_, err := nav.Ascend(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingPath)
}

func TestNavigation_TimeoutStatus(t *testing.T) {
	home := tempRoot(t)
	makeTree(t, home, "a.txt")
	nav, metrics := newTestNavigation(t, home)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := nav.ExpandNode(ctx, home)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("expand", telemetry.StatusTimeout)))
}

func TestNavigation_SkipsAreReported(t *testing.T) {
	home := tempRoot(t)
	makeTree(t, home, "ok.txt")
	require.NoError(t, os.Symlink(filepath.Join(home, "missing"), filepath.Join(home, "dangling")))
	nav, metrics := newTestNavigation(t, home)

	result, err := nav.ExpandNode(context.Background(), home)
	require.NoError(t, err)
	require.Len(t, result.Skips, 1)
	assert.Equal(t, models.SkipNotExist, result.Skips[0].Reason)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SkipsTotal.WithLabelValues(string(models.SkipNotExist))))
}

func TestResolve(t *testing.T) {
	nav, _ := newTestNavigation(t, "/home/ada")

	assert.Equal(t, "/home/ada", nav.Resolve("~"))
	assert.Equal(t, "/home/ada/src", nav.Resolve("~/src"))
	assert.Equal(t, "/var/log", nav.Resolve("/var/log/"))
	assert.Equal(t, "/var", nav.Resolve("/var/log/.."))
	assert.Equal(t, "/~other", nav.Resolve("/~other"))
}

func TestLoadRoot_UnsetDefaultDepthIsTwo(t *testing.T) {
	home := tempRoot(t)
	makeTree(t, home, "a/b/c.txt")
	nav := NewNavigationService(NewCrawler(CrawlerOptions{}, quietLogger()), NavigationConfig{HomeDir: home}, nil, quietLogger())

	result, err := nav.LoadRoot(context.Background(), models.LoadRootRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		home,
		filepath.Join(home, "a"),
		filepath.Join(home, "a", "b"),
	}, nodeIDs(result.Graph))

	result, err = nav.LoadRoot(context.Background(), models.LoadRootRequest{Depth: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, []string{home}, nodeIDs(result.Graph))
}
