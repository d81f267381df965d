package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/inference"
	"github.com/jonathan/ats-engine/internal/ingest"
	"github.com/jonathan/ats-engine/internal/observability"
	"github.com/jonathan/ats-engine/internal/types"
)

var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Derive implied skills and detect the target role from a resume",
	Long:  "Scan a resume for inference-rule signals (e.g. Kubernetes implies Docker) and detect the target role family. A saved JD analysis suppresses skills the candidate already lists; raw JD text sharpens role detection. Fully offline.",
	RunE:  runInfer,
}

var (
	inferResumeFile string
	inferJDAnalysis string
	inferJDFile     string
	inferOutFile    string
)

func init() {
	inferCmd.Flags().StringVarP(&inferResumeFile, "resume", "r", "", "Path to resume file (txt, md, pdf, docx) (required)")
	inferCmd.Flags().StringVar(&inferJDAnalysis, "jd-analysis", "", "Path to a saved JD analysis JSON (optional; its keywords count as explicit)")
	inferCmd.Flags().StringVarP(&inferJDFile, "jd", "j", "", "Path to raw job posting text for role detection (optional)")
	inferCmd.Flags().StringVarP(&inferOutFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	_ = inferCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(inferCmd)
}

// inferOutput pairs the detected role with the tuned inferred skills.
type inferOutput struct {
	Role     types.RoleSignal      `json:"role"`
	Inferred []types.InferredSkill `json:"inferred_skills"`
}

func runInfer(_ *cobra.Command, _ []string) error {
	resumeText, err := ingest.ExtractFile(inferResumeFile)
	if err != nil {
		return err
	}

	var explicit []string
	if inferJDAnalysis != "" {
		jd, err := loadJDAnalysis(inferJDAnalysis)
		if err != nil {
			return err
		}
		explicit = jd.Keywords.All()
	}

	var jdText string
	if inferJDFile != "" {
		data, err := os.ReadFile(inferJDFile)
		if err != nil {
			return fmt.Errorf("failed to read job posting file: %w", err)
		}
		jdText = string(data)
	}

	role := inference.DetectRole(jdText, resumeText)
	inferred := inference.Infer(resumeText, explicit)
	inferred = inference.TuneByRole(inferred, role.Role)

	printer := observability.NewPrinter(os.Stderr)
	printer.PrintRoleSignal(&role)
	printer.PrintInferredSkills(inferred)

	return writeJSON(inferOutFile, inferOutput{Role: role, Inferred: inferred})
}
