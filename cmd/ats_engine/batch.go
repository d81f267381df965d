package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/batch"
	"github.com/jonathan/ats-engine/internal/ingest"
	"github.com/jonathan/ats-engine/internal/llm"
	"github.com/jonathan/ats-engine/internal/observability"
	"github.com/jonathan/ats-engine/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score one resume against many job postings concurrently",
	Long:  "Run the full analysis pipeline for every posting in parallel and aggregate the outcomes ranked by fit score. One failed posting never aborts the rest; it becomes an error entry in the result.",
	RunE:  runBatch,
}

var (
	batchResumeFile   string
	batchPostingsFile string
	batchResumeID     string
	batchConcurrency  int
	batchOutFile      string
	batchAPIKey       string
	batchVerbose      bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchResumeFile, "resume", "r", "", "Path to resume file (txt, md, pdf, docx) (required)")
	batchCmd.Flags().StringVarP(&batchPostingsFile, "postings", "p", "", "Path to a JSON array of job postings [{id, title, company, text}] (required)")
	batchCmd.Flags().StringVar(&batchResumeID, "resume-id", "", "Caller-chosen resume identifier carried into the result")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", batch.DefaultConcurrency, "Max postings analyzed in parallel")
	batchCmd.Flags().StringVarP(&batchOutFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	batchCmd.Flags().StringVar(&batchAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	batchCmd.Flags().BoolVarP(&batchVerbose, "verbose", "v", false, "Print the batch summary to stderr")
	_ = batchCmd.MarkFlagRequired("resume")
	_ = batchCmd.MarkFlagRequired("postings")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, _ []string) error {
	apiKey, err := resolveAPIKey(batchAPIKey)
	if err != nil {
		return err
	}

	resumeText, err := ingest.ExtractFile(batchResumeFile)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(batchPostingsFile)
	if err != nil {
		return fmt.Errorf("failed to read postings file: %w", err)
	}
	var postings []types.JobPosting
	if err := json.Unmarshal(data, &postings); err != nil {
		return fmt.Errorf("failed to parse postings JSON: %w", err)
	}
	if len(postings) == 0 {
		return fmt.Errorf("postings file carries no postings: %s", batchPostingsFile)
	}

	ctx := context.Background()

	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	result, err := batch.New(client, batchConcurrency).Process(ctx, batch.Request{
		ResumeText: resumeText,
		ResumeID:   batchResumeID,
		Postings:   postings,
	})
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	if batchVerbose {
		observability.NewPrinter(os.Stderr).PrintBatchSummary(&result)
	}

	if err := writeJSON(batchOutFile, result); err != nil {
		return err
	}
	return validateOutput("schemas/batch_result.schema.json", batchOutFile)
}
