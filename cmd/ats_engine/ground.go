package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/grounding"
)

var groundCmd = &cobra.Command{
	Use:   "ground",
	Short: "Check whether candidate text is grounded in a source resume",
	Long:  "Run the grounding validator on a single piece of text: reject prose that introduces technologies absent from the source, accept verbatim fragments, and judge the rest by token overlap against the threshold. Exits non-zero when the text is rejected.",
	RunE:  runGround,
}

var (
	groundCandidate     string
	groundCandidateFile string
	groundSourceFile    string
	groundKeywords      string
	groundMinSimilarity float64
	groundOutFile       string
)

func init() {
	groundCmd.Flags().StringVar(&groundCandidate, "candidate", "", "Candidate text to check (mutually exclusive with --candidate-file)")
	groundCmd.Flags().StringVar(&groundCandidateFile, "candidate-file", "", "Path to a file holding the candidate text")
	groundCmd.Flags().StringVarP(&groundSourceFile, "source", "s", "", "Path to the source resume file (txt, md, pdf, docx) (required)")
	groundCmd.Flags().StringVar(&groundKeywords, "keywords", "", "Comma-separated allow-listed keywords (e.g. JD terms)")
	groundCmd.Flags().Float64Var(&groundMinSimilarity, "min-similarity", 0, "Token-overlap threshold (0 uses the default)")
	groundCmd.Flags().StringVarP(&groundOutFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	_ = groundCmd.MarkFlagRequired("source")

	rootCmd.AddCommand(groundCmd)
}

func runGround(_ *cobra.Command, _ []string) error {
	if (groundCandidate == "") == (groundCandidateFile == "") {
		return fmt.Errorf("exactly one of --candidate or --candidate-file is required")
	}

	candidate := groundCandidate
	if groundCandidateFile != "" {
		data, err := os.ReadFile(groundCandidateFile)
		if err != nil {
			return fmt.Errorf("failed to read candidate file: %w", err)
		}
		candidate = string(data)
	}

	source, err := os.ReadFile(groundSourceFile)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}

	verdict := grounding.Check(candidate, string(source), splitList(groundKeywords), groundMinSimilarity)

	if err := writeJSON(groundOutFile, verdict); err != nil {
		return err
	}
	if !verdict.Grounded {
		return fmt.Errorf("candidate text rejected: %s", verdict.Reason)
	}
	return nil
}
