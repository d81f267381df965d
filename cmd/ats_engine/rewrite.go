package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/inference"
	"github.com/jonathan/ats-engine/internal/ingest"
	"github.com/jonathan/ats-engine/internal/llm"
	"github.com/jonathan/ats-engine/internal/observability"
	"github.com/jonathan/ats-engine/internal/rewrite"
	"github.com/jonathan/ats-engine/internal/types"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite resume content toward a JD with grounding validation",
	Long:  "Rephrase the summary, bullets, and skills toward the JD keywords. Every piece of collaborator output is validated against the original resume; rejected prose is dropped and reported, and a broken collaborator falls back to the original content rather than failing.",
	RunE:  runRewrite,
}

var (
	rewriteResumeFile  string
	rewriteJDAnalysis  string
	rewriteSummary     string
	rewriteBulletsFile string
	rewriteSkills      string
	rewriteOutFile     string
	rewriteAPIKey      string
	rewriteVerbose     bool
)

func init() {
	rewriteCmd.Flags().StringVarP(&rewriteResumeFile, "resume", "r", "", "Path to resume file (txt, md, pdf, docx) (required)")
	rewriteCmd.Flags().StringVar(&rewriteJDAnalysis, "jd-analysis", "", "Path to a saved JD analysis JSON (required)")
	rewriteCmd.Flags().StringVar(&rewriteSummary, "summary", "", "Professional summary to rewrite (default: none)")
	rewriteCmd.Flags().StringVar(&rewriteBulletsFile, "bullets", "", "Path to a text file with one bullet per line")
	rewriteCmd.Flags().StringVar(&rewriteSkills, "skills", "", "Comma-separated skills-section entries")
	rewriteCmd.Flags().StringVarP(&rewriteOutFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	rewriteCmd.Flags().StringVar(&rewriteAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	rewriteCmd.Flags().BoolVarP(&rewriteVerbose, "verbose", "v", false, "Print the rewrite result to stderr")
	_ = rewriteCmd.MarkFlagRequired("resume")
	_ = rewriteCmd.MarkFlagRequired("jd-analysis")

	rootCmd.AddCommand(rewriteCmd)
}

func runRewrite(_ *cobra.Command, _ []string) error {
	apiKey, err := resolveAPIKey(rewriteAPIKey)
	if err != nil {
		return err
	}

	resumeText, err := ingest.ExtractFile(rewriteResumeFile)
	if err != nil {
		return err
	}

	jd, err := loadJDAnalysis(rewriteJDAnalysis)
	if err != nil {
		return err
	}

	bullets, err := readBulletsFile(rewriteBulletsFile)
	if err != nil {
		return err
	}
	skills := splitList(rewriteSkills)

	ctx := context.Background()

	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	inferred := inference.Infer(resumeText, jd.Keywords.All())
	role := inference.DetectRole("", resumeText)
	inferred = inference.TuneByRole(inferred, role.Role)

	result, err := rewrite.New(client).Rewrite(ctx, rewrite.Request{
		Summary:    rewriteSummary,
		Bullets:    bullets,
		Skills:     skills,
		ResumeText: resumeText,
		Keywords:   jd.Keywords,
		Inferred:   inferred,
		Baseline:   jd.Keywords,
	})
	if err != nil {
		return fmt.Errorf("rewrite failed: %w", err)
	}

	if rewriteVerbose {
		printRewriteVerbose(&result)
	}

	if err := writeJSON(rewriteOutFile, result); err != nil {
		return err
	}
	return validateOutput("schemas/rewrite_result.schema.json", rewriteOutFile)
}

func printRewriteVerbose(result *rewrite.Result) {
	observability.NewPrinter(os.Stderr).PrintRewriteResult(&types.RewriteResult{
		Summary:         result.Summary,
		Bullets:         result.Bullets,
		Skills:          result.Skills,
		RejectedBullets: result.RejectedBullets,
		RejectedSkills:  result.RejectedSkills,
		SummaryRejected: result.SummaryRejected,
		UsedFallback:    result.UsedFallback,
	})
}
