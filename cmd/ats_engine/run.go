package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/config"
	"github.com/jonathan/ats-engine/internal/db"
	"github.com/jonathan/ats-engine/internal/fetch"
	"github.com/jonathan/ats-engine/internal/ingest"
	"github.com/jonathan/ats-engine/internal/llm"
	"github.com/jonathan/ats-engine/internal/observability"
	"github.com/jonathan/ats-engine/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full analysis pipeline end-to-end",
	Long: `Orchestrates the entire analysis: JD analysis -> role detection -> skill inference -> tiered matching -> weighted scoring -> gap analysis -> optional grounded rewrite, with optional run persistence.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath  string
	runResume      string
	runJob         string
	runJobURL      string
	runRewriteFlag bool
	runSummary     string
	runBulletsFile string
	runSkills      string
	runOutFile     string
	runAPIKey      string
	runDatabaseURL string
	runUseBrowser  bool
	runVerbose     bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runResume, "resume", "r", "", "Path to resume file (txt, md, pdf, docx)")
	runCommand.Flags().StringVarP(&runJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	runCommand.Flags().StringVar(&runJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	runCommand.Flags().BoolVar(&runRewriteFlag, "rewrite", false, "Run the grounded rewrite step after scoring")
	runCommand.Flags().StringVar(&runSummary, "summary", "", "Professional summary for the rewrite step")
	runCommand.Flags().StringVar(&runBulletsFile, "bullets", "", "Path to a text file with one bullet per line for the rewrite step")
	runCommand.Flags().StringVar(&runSkills, "skills", "", "Comma-separated skills-section entries for the rewrite step")
	runCommand.Flags().StringVarP(&runOutFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed progress information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for run persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var; empty disables persistence)")

	// Note: --resume/--job are not marked required; we validate after merging config

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Validate loaded config
		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("resume") {
		cfg.Resume = runResume
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = runJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = runJobURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{})

	// Step 4: Validate required fields
	if cfg.Resume == "" {
		return fmt.Errorf("--resume must be provided (via flag or config)")
	}
	if cfg.Job == "" && cfg.JobURL == "" {
		return fmt.Errorf("either --job or --job-url must be provided (via flag or config)")
	}
	if cfg.Job != "" && cfg.JobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}

	// Step 5: API Key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	// Step 6: Database URL handling (persistence is optional)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
	}

	resumeText, err := ingest.ExtractFile(cfg.Resume)
	if err != nil {
		return err
	}

	jdText, err := resolveJDText(ctx, cfg)
	if err != nil {
		return err
	}

	bullets, err := readBulletsFile(runBulletsFile)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, nil, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	opts := pipeline.Options{
		ResumeText: resumeText,
		JDText:     jdText,
		JobURL:     cfg.JobURL,
		Rewrite:    runRewriteFlag,
		Summary:    runSummary,
		Bullets:    bullets,
		Skills:     splitList(runSkills),
		DB:         database,
		OnProgress: func(event pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(os.Stderr, "==> %s\n", event.Message)
		},
	}

	outcome, err := pipeline.New(client).Run(ctx, opts)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintJobDescription(&outcome.Report.JD)
		printer.PrintRoleSignal(&outcome.Report.Role)
		printer.PrintScore(&outcome.Report.Score)
		printer.PrintGapReport(&outcome.Report.Gap)
		printer.PrintRiskFlags(outcome.Report.RiskFlags)
	}

	return writeJSON(runOutFile, outcome)
}

// resolveJDText reads the posting from a file or fetches it from a URL.
func resolveJDText(ctx context.Context, cfg config.Config) (string, error) {
	if cfg.Job != "" {
		data, err := os.ReadFile(cfg.Job)
		if err != nil {
			return "", fmt.Errorf("failed to read job posting file: %w", err)
		}
		return string(data), nil
	}

	posting, err := fetch.FetchJobPosting(ctx, cfg.JobURL, &fetch.PostingOptions{
		UseBrowser: cfg.UseBrowser,
		Verbose:    cfg.Verbose,
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch job posting: %w", err)
	}
	return posting.Text, nil
}

// readBulletsFile reads one bullet per non-blank line; an empty path is fine.
func readBulletsFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bullets file: %w", err)
	}
	return splitLines(string(data)), nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
