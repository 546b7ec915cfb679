package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile2pdf/internal/credentials"
)

var setKeyCmd = &cobra.Command{
	Use:   "set-key <api-key>",
	Short: "Store the crawl API key",
	Long:  "Stores the Firecrawl API key in the configured credentials backend. Later fetches use it; without it, generated data is used.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetKey,
}

func init() {
	rootCmd.AddCommand(setKeyCmd)
}

func runSetKey(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.credentials.Set(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "API key saved (%s) to %s backend\n", //nolint:errcheck
		credentials.Mask(strings.TrimSpace(args[0])), a.cfg.Credentials.Backend)
	return nil
}
