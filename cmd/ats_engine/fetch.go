package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a job posting from a URL and extract its text",
	Long:  "Download a job posting page, strip boilerplate with platform-aware selectors, and emit the plain text. SPA job boards that render client-side need --use-browser (requires Chrome).",
	RunE:  runFetch,
}

var (
	fetchURL        string
	fetchOutFile    string
	fetchUseBrowser bool
	fetchVerbose    bool
)

func init() {
	fetchCmd.Flags().StringVarP(&fetchURL, "url", "u", "", "Job posting URL (required)")
	fetchCmd.Flags().StringVarP(&fetchOutFile, "out", "o", "", "Path to output text file (default: stdout)")
	fetchCmd.Flags().BoolVar(&fetchUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	fetchCmd.Flags().BoolVarP(&fetchVerbose, "verbose", "v", false, "Print fetch details to stderr")
	_ = fetchCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(_ *cobra.Command, _ []string) error {
	posting, err := fetch.FetchJobPosting(context.Background(), fetchURL, &fetch.PostingOptions{
		UseBrowser: fetchUseBrowser,
		Verbose:    fetchVerbose,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch job posting: %w", err)
	}

	if fetchVerbose {
		_, _ = fmt.Fprintf(os.Stderr, "Platform: %s, browser used: %t, %d characters\n",
			posting.Platform, posting.UsedBrowser, len(posting.Text))
	}

	return writeText(fetchOutFile, posting.Text)
}

// writeText writes s to path, or to stdout when path is empty.
func writeText(path, s string) error {
	if path == "" {
		_, err := fmt.Fprintln(os.Stdout, s)
		return err
	}
	if err := os.WriteFile(path, []byte(s), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
