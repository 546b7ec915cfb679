package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile2pdf/internal/observability"
	"github.com/jonathan/profile2pdf/internal/pipeline"
	"github.com/jonathan/profile2pdf/internal/schemas"
)

// Artifact file names written by fetch
const (
	resultFileName = "result.json"
	resumeFileName = "resume.json"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a profile and synthesize a résumé",
	Long: `Crawls the profile and reference sites, merges skills and synthesizes a résumé.
Writes result.json (the aggregated fetch result) and resume.json (the editable
résumé) to the output directory. Falls back to generated data when the profile
cannot be crawled.`,
	RunE: runFetch,
}

var (
	fetchURL    string
	fetchRefs   []string
	fetchOutDir string
)

func init() {
	fetchCmd.Flags().StringVarP(&fetchURL, "url", "u", "", "X/Twitter profile URL (required)")
	fetchCmd.Flags().StringSliceVarP(&fetchRefs, "ref", "r", nil, "Reference site URL (repeatable, at most 10)")
	fetchCmd.Flags().StringVarP(&fetchOutDir, "out", "o", ".", "Output directory")

	if err := fetchCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	if len(fetchRefs) > 10 {
		return fmt.Errorf("at most 10 reference URLs are allowed, got %d", len(fetchRefs))
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	req := pipeline.Request{ProfileURL: fetchURL, ReferenceURLs: fetchRefs}
	if verbose {
		req.OnProgress = func(e pipeline.ProgressEvent) {
			fmt.Fprintf(out, "[%s] %s\n", e.State, e.Message) //nolint:errcheck
		}
	}

	result, err := a.aggregator().Fetch(cmd.Context(), req)
	if err != nil {
		return err
	}
	record := a.synthesizer().Synthesize(&result.Profile)

	if err := schemas.ValidateFetchResult(result); err != nil {
		return fmt.Errorf("fetch result failed schema validation: %w", err)
	}
	if err := schemas.ValidateResume(record); err != nil {
		return fmt.Errorf("resume failed schema validation: %w", err)
	}

	if err := os.MkdirAll(fetchOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	resultPath := filepath.Join(fetchOutDir, resultFileName)
	if err := writeJSON(resultPath, result); err != nil {
		return err
	}
	resumePath := filepath.Join(fetchOutDir, resumeFileName)
	if err := writeJSON(resumePath, record); err != nil {
		return err
	}

	if verbose {
		printer.PrintFetchResult(result)
		printer.PrintResume(record)
	}
	if result.Synthetic {
		fmt.Fprintln(out, "⚠ profile could not be crawled; generated data was used") //nolint:errcheck
	}
	fmt.Fprintf(out, "✓ wrote %s and %s\n", resultPath, resumePath) //nolint:errcheck
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
