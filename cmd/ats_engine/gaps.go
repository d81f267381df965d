package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/gap"
	"github.com/jonathan/ats-engine/internal/inference"
	"github.com/jonathan/ats-engine/internal/ingest"
	"github.com/jonathan/ats-engine/internal/observability"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Report the skill gap between a resume and a JD analysis",
	Long:  "Partition the JD keywords into present and missing for a resume, with coverage percentages, severity, and prioritized recommendations. Runs entirely offline against a saved JD analysis.",
	RunE:  runGaps,
}

var (
	gapsResumeFile string
	gapsJDAnalysis string
	gapsRole       string
	gapsOutFile    string
	gapsVerbose    bool
)

func init() {
	gapsCmd.Flags().StringVarP(&gapsResumeFile, "resume", "r", "", "Path to resume file (txt, md, pdf, docx) (required)")
	gapsCmd.Flags().StringVar(&gapsJDAnalysis, "jd-analysis", "", "Path to a saved JD analysis JSON (required)")
	gapsCmd.Flags().StringVar(&gapsRole, "role", "", "Role family for inference tuning (backend, frontend, devops, data)")
	gapsCmd.Flags().StringVarP(&gapsOutFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	gapsCmd.Flags().BoolVarP(&gapsVerbose, "verbose", "v", false, "Print the gap report to stderr")
	_ = gapsCmd.MarkFlagRequired("resume")
	_ = gapsCmd.MarkFlagRequired("jd-analysis")

	rootCmd.AddCommand(gapsCmd)
}

func runGaps(_ *cobra.Command, _ []string) error {
	resumeText, err := ingest.ExtractFile(gapsResumeFile)
	if err != nil {
		return err
	}

	jd, err := loadJDAnalysis(gapsJDAnalysis)
	if err != nil {
		return err
	}

	inferred := inference.Infer(resumeText, jd.Keywords.All())
	if gapsRole != "" {
		inferred = inference.TuneByRole(inferred, gapsRole)
	}

	report := gap.AnalyzeGap(jd.Keywords, resumeText, inferred)

	if gapsVerbose {
		observability.NewPrinter(os.Stderr).PrintGapReport(&report)
	}

	if err := writeJSON(gapsOutFile, report); err != nil {
		return err
	}
	return validateOutput("schemas/gap_report.schema.json", gapsOutFile)
}
