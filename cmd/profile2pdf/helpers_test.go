package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the root command in-process with fresh flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default, since cobra commands are
// package globals shared by all tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// isolate runs the test in a temporary directory with a file credential
// store, generated-data seed and no crawl API key.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("FIRECRAWL_API_KEY", "")
	t.Setenv("PROFILE2PDF_CREDENTIALS_BACKEND", "file")
	t.Setenv("PROFILE2PDF_CREDENTIALS_FILE_PATH", filepath.Join(dir, "credentials.json"))
	t.Setenv("PROFILE2PDF_CRAWL_CACHE_BACKEND", "memory")
	t.Setenv("PROFILE2PDF_SESSION_BACKEND", "memory")
	t.Setenv("PROFILE2PDF_KAFKA_BROKERS", "")
	t.Setenv("PROFILE2PDF_MOCK_SEED", "42")
	t.Setenv("PROFILE2PDF_LOG_LEVEL", "error")
	return dir
}
