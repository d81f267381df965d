package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/analyzer"
	"github.com/jonathan/ats-engine/internal/ingest"
	"github.com/jonathan/ats-engine/internal/llm"
	"github.com/jonathan/ats-engine/internal/observability"
	"github.com/jonathan/ats-engine/internal/pipeline"
	"github.com/jonathan/ats-engine/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job description",
	Long:  "Build the full analysis report for one resume/JD pairing: role detection, skill inference, tiered keyword matching, weighted scoring, gap analysis, and fit classification. The JD comes in as a saved analysis JSON (no API call) or as raw text (analyzed first).",
	RunE:  runScore,
}

var (
	scoreResumeFile string
	scoreJDAnalysis string
	scoreJDFile     string
	scoreOutFile    string
	scoreAPIKey     string
	scoreVerbose    bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResumeFile, "resume", "r", "", "Path to resume file (txt, md, pdf, docx) (required)")
	scoreCmd.Flags().StringVar(&scoreJDAnalysis, "jd-analysis", "", "Path to a saved JD analysis JSON (mutually exclusive with --jd)")
	scoreCmd.Flags().StringVarP(&scoreJDFile, "jd", "j", "", "Path to raw job posting text (requires API key; mutually exclusive with --jd-analysis)")
	scoreCmd.Flags().StringVarP(&scoreOutFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print the score and gap report to stderr")
	_ = scoreCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	if (scoreJDAnalysis == "") == (scoreJDFile == "") {
		return fmt.Errorf("exactly one of --jd-analysis or --jd is required")
	}

	resumeText, err := ingest.ExtractFile(scoreResumeFile)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var jd types.JobDescription
	var jdText string
	if scoreJDAnalysis != "" {
		jd, err = loadJDAnalysis(scoreJDAnalysis)
		if err != nil {
			return err
		}
	} else {
		apiKey, err := resolveAPIKey(scoreAPIKey)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(scoreJDFile)
		if err != nil {
			return fmt.Errorf("failed to read job posting file: %w", err)
		}
		jdText = string(data)

		client, err := llm.NewClient(ctx, nil, apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()

		jd, err = analyzer.New(client).AnalyzeJD(ctx, jdText)
		if err != nil {
			return fmt.Errorf("failed to analyze job description: %w", err)
		}
	}

	report := pipeline.BuildReport(jd, jdText, resumeText)

	if scoreVerbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintRoleSignal(&report.Role)
		printer.PrintScore(&report.Score)
		printer.PrintGapReport(&report.Gap)
		printer.PrintRiskFlags(report.RiskFlags)
	}

	if err := writeJSON(scoreOutFile, report); err != nil {
		return err
	}
	return validateOutput("schemas/analysis_report.schema.json", scoreOutFile)
}
