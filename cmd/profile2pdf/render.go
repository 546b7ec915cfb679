package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile2pdf/internal/rendering"
	"github.com/jonathan/profile2pdf/internal/schemas"
	"github.com/jonathan/profile2pdf/internal/types"
	schemafiles "github.com/jonathan/profile2pdf/schemas"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a résumé JSON file to HTML or PDF",
	Long:  "Renders resume.json to an A4 document. The format follows the output extension (.html or .pdf) unless --format is given. PDF output requires Chrome.",
	RunE:  runRender,
}

var (
	renderIn     string
	renderOut    string
	renderFormat string
	renderDate   string
)

func init() {
	renderCmd.Flags().StringVarP(&renderIn, "in", "i", "", "Path to resume JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Path to output file (required)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Output format: html or pdf (default from --out extension)")
	renderCmd.Flags().StringVar(&renderDate, "date", "", "Creation date shown on the résumé, YYYY-MM-DD (default today)")

	if err := renderCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := renderCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(renderFormat)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(renderOut)), ".")
	}
	if format != "html" && format != "pdf" {
		return fmt.Errorf("unsupported format %q: use html or pdf", format)
	}

	createdAt := time.Now()
	if renderDate != "" {
		parsed, err := time.Parse(rendering.CreatedDateLayout, renderDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		createdAt = parsed
	}

	content, err := os.ReadFile(renderIn)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	if err := schemas.ValidateJSONBytes(schemafiles.Resume, content); err != nil {
		return fmt.Errorf("invalid resume file: %w", err)
	}
	var record types.ResumeRecord
	if err := json.Unmarshal(content, &record); err != nil {
		return fmt.Errorf("failed to unmarshal resume JSON: %w", err)
	}

	var output []byte
	if format == "html" {
		html, err := rendering.RenderHTML(&record, createdAt)
		if err != nil {
			return err
		}
		output = []byte(html)
	} else {
		output, err = rendering.NewPDFRenderer().RenderResume(cmd.Context(), &record, createdAt)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(renderOut, output, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ rendered %s (%d bytes)\n", renderOut, len(output)) //nolint:errcheck
	return nil
}
