package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/inference"
	"github.com/jonathan/ats-engine/internal/ingest"
	"github.com/jonathan/ats-engine/internal/observability"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Detect the target role family from a JD and resume",
	Long:  "Classify the target role (backend, infra, frontend, fullstack) by counting role-profile keyword hits across the job posting and resume text. Deterministic and fully offline.",
	RunE:  runRole,
}

var (
	roleJDFile     string
	roleResumeFile string
	roleOutFile    string
)

func init() {
	roleCmd.Flags().StringVarP(&roleJDFile, "jd", "j", "", "Path to raw job posting text (at least one of --jd/--resume required)")
	roleCmd.Flags().StringVarP(&roleResumeFile, "resume", "r", "", "Path to resume file (txt, md, pdf, docx)")
	roleCmd.Flags().StringVarP(&roleOutFile, "out", "o", "", "Path to output JSON file (default: stdout)")

	rootCmd.AddCommand(roleCmd)
}

func runRole(_ *cobra.Command, _ []string) error {
	if roleJDFile == "" && roleResumeFile == "" {
		return fmt.Errorf("at least one of --jd or --resume is required")
	}

	var jdText string
	if roleJDFile != "" {
		data, err := os.ReadFile(roleJDFile)
		if err != nil {
			return fmt.Errorf("failed to read job posting file: %w", err)
		}
		jdText = string(data)
	}

	var resumeText string
	if roleResumeFile != "" {
		var err error
		resumeText, err = ingest.ExtractFile(roleResumeFile)
		if err != nil {
			return err
		}
	}

	role := inference.DetectRole(jdText, resumeText)
	observability.NewPrinter(os.Stderr).PrintRoleSignal(&role)

	return writeJSON(roleOutFile, role)
}
