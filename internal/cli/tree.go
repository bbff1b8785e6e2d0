package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fsgraph/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	treeDepth int

	treeCmd = &cobra.Command{
		Use:   "tree [path]",
		Short: "Print a crawl as an indented tree",
		Long:  `Crawls path (default the home directory) to --depth levels and prints the result. Skipped entries are reported on stderr.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTree,
	}
)

func init() {
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "d", -1, "crawl depth (default from config)")
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	nav := newNavigation(cfg, nil, logger)

	path := cfg.HomeDir
	if len(args) == 1 {
		path = args[0]
	}
	depth := cfg.Crawl.DefaultDepth
	if treeDepth >= 0 {
		depth = treeDepth
	}

	result, err := newCrawler(cfg, logger).Crawl(cmd.Context(), nav.Resolve(path), depth)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	styles := newTreeStyles(color)
	renderTree(out, result.Root, styles)

	if len(result.Skips) > 0 {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintf(errOut, "\n%d entries skipped\n", len(result.Skips))
		for _, s := range result.Skips {
			fmt.Fprintf(errOut, "  %s [%s] %s\n", s.Path, s.Reason, styles.meta.Render(s.Error))
		}
	}
	return nil
}

type treeStyles struct {
	folder lipgloss.Style
	file   lipgloss.Style
	meta   lipgloss.Style
}

func newTreeStyles(color bool) treeStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return treeStyles{folder: plain, file: plain, meta: plain}
	}
	return treeStyles{
		folder: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		file:   lipgloss.NewStyle(),
		meta:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (s treeStyles) label(e models.DirectoryEntry) string {
	if e.IsFolder() {
		name := e.Name
		if !strings.HasSuffix(name, string(filepath.Separator)) {
			name += string(filepath.Separator)
		}
		return s.folder.Render(name)
	}
	return s.file.Render(e.Name) + "  " + s.meta.Render(humanize.Bytes(uint64(e.Size)))
}

// renderTree writes root and its descendants with box-drawing connectors
func renderTree(w io.Writer, root models.DirectoryEntry, styles treeStyles) {
	fmt.Fprintln(w, styles.label(root))
	renderChildren(w, root.Children, "", styles)
}

func renderChildren(w io.Writer, children []models.DirectoryEntry, prefix string, styles treeStyles) {
	for i, child := range children {
		connector, next := "├── ", "│   "
		if i == len(children)-1 {
			connector, next = "└── ", "    "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, styles.label(child))
		renderChildren(w, child.Children, prefix+next, styles)
	}
}
