package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/analyzer"
	"github.com/jonathan/ats-engine/internal/fetch"
	"github.com/jonathan/ats-engine/internal/llm"
	"github.com/jonathan/ats-engine/internal/observability"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract the canonical JD analysis from a job posting",
	Long:  "Analyze a job posting (text file or URL) and emit the canonical JD analysis JSON: role, seniority, and categorized keywords, normalized and deduplicated.",
	RunE:  runAnalyze,
}

var (
	analyzeJDFile     string
	analyzeJDURL      string
	analyzeOutFile    string
	analyzeAPIKey     string
	analyzeUseBrowser bool
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeJDFile, "jd", "j", "", "Path to job posting text file (mutually exclusive with --jd-url)")
	analyzeCmd.Flags().StringVar(&analyzeJDURL, "jd-url", "", "URL to fetch the job posting from (mutually exclusive with --jd)")
	analyzeCmd.Flags().StringVarP(&analyzeOutFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print the analyzed JD to stderr")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	if (analyzeJDFile == "") == (analyzeJDURL == "") {
		return fmt.Errorf("exactly one of --jd or --jd-url is required")
	}

	apiKey, err := resolveAPIKey(analyzeAPIKey)
	if err != nil {
		return err
	}

	ctx := context.Background()

	jdText, err := loadJDText(ctx, analyzeJDFile, analyzeJDURL, analyzeUseBrowser, analyzeVerbose)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	jd, err := analyzer.New(client).AnalyzeJD(ctx, jdText)
	if err != nil {
		return fmt.Errorf("failed to analyze job description: %w", err)
	}

	if analyzeVerbose {
		observability.NewPrinter(os.Stderr).PrintJobDescription(&jd)
	}

	if err := writeJSON(analyzeOutFile, jd); err != nil {
		return err
	}
	return validateOutput("schemas/jd_analysis.schema.json", analyzeOutFile)
}

// loadJDText reads the JD from a file or fetches it from a posting URL.
func loadJDText(ctx context.Context, file, url string, useBrowser, verbose bool) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read job posting file: %w", err)
		}
		return string(data), nil
	}

	posting, err := fetch.FetchJobPosting(ctx, url, &fetch.PostingOptions{
		UseBrowser: useBrowser,
		Verbose:    verbose,
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch job posting: %w", err)
	}
	return posting.Text, nil
}
