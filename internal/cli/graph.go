package cli

import (
	"encoding/json"

	"fsgraph/internal/models"

	"github.com/spf13/cobra"
)

var (
	graphDepth int

	graphCmd = &cobra.Command{
		Use:   "graph [path]",
		Short: "Print a crawl as graph JSON",
		Long:  `Runs a root load on path (default the home directory) and writes {rootPath, graph} as JSON, the same shape the API returns.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGraph,
	}
)

func init() {
	graphCmd.Flags().IntVarP(&graphDepth, "depth", "d", -1, "crawl depth (default from config)")
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	nav := newNavigation(cfg, nil, newLogger(cfg))

	req := models.LoadRootRequest{}
	if len(args) == 1 {
		req.Path = args[0]
	}
	if graphDepth >= 0 {
		req.Depth = &graphDepth
	}

	result, err := nav.LoadRoot(cmd.Context(), req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		RootPath string           `json:"rootPath"`
		Graph    models.GraphView `json:"graph"`
		Skips    []models.Skip    `json:"skips"`
	}{result.Path, result.Graph, result.Skips})
}
