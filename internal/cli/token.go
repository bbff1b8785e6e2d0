package cli

import (
	"fmt"
	"time"

	"fsgraph/internal/middleware"

	"github.com/spf13/cobra"
)

var (
	tokenClientName string

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Generate an API token",
		Long:  `Generates a bearer token for the API using the configured (or persisted) secret key. Tokens are only issued from the command line.`,
		Args:  cobra.NoArgs,
		RunE:  runToken,
	}
)

func init() {
	tokenCmd.Flags().StringVarP(&tokenClientName, "name", "n", "fsgraph-client", "client name embedded in the token")
}

func runToken(cmd *cobra.Command, _ []string) error {
	if !middleware.ValidClientName(tokenClientName) {
		return fmt.Errorf("invalid client name %q: use letters, digits, '-', '_' or '.'", tokenClientName)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	auth, err := newAuth(cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	token, err := auth.GenerateToken(tokenClientName)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, token)
	fmt.Fprintf(out, "expires %s\n", auth.TokenExpiry().Format(time.RFC3339))
	return nil
}
