package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile2pdf/internal/ingestion"
)

var checkURLCmd = &cobra.Command{
	Use:   "check-url <url>",
	Short: "Check whether a URL is an accepted profile or reference URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckURL,
}

var checkURLReference bool

func init() {
	checkURLCmd.Flags().BoolVar(&checkURLReference, "reference", false, "Check as a reference site URL instead of a profile URL")
	rootCmd.AddCommand(checkURLCmd)
}

func runCheckURL(cmd *cobra.Command, args []string) error {
	url := args[0]
	if checkURLReference {
		if !ingestion.IsReferenceURL(url) {
			return fmt.Errorf("%w: %q is not a valid reference URL", ingestion.ErrInvalidURL, url)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ valid reference URL: %s\n", url) //nolint:errcheck
		return nil
	}

	if !ingestion.IsProfileURL(url) {
		return fmt.Errorf("%w: %q is not an X/Twitter profile URL", ingestion.ErrInvalidURL, url)
	}
	username, err := ingestion.UsernameFromURL(url)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ valid profile URL for @%s\n", username) //nolint:errcheck
	return nil
}
