package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Extract plain text from a resume document",
	Long:  "Extract the text content of a resume (txt, md, pdf, docx) for inspection or downstream use. This is exactly the text every scoring and rewrite step sees.",
	RunE:  runIngest,
}

var (
	ingestInFile  string
	ingestOutFile string
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestInFile, "in", "i", "", "Path to resume file (txt, md, pdf, docx) (required)")
	ingestCmd.Flags().StringVarP(&ingestOutFile, "out", "o", "", "Path to output text file (default: stdout)")
	_ = ingestCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	text, err := ingest.ExtractFile(ingestInFile)
	if err != nil {
		return err
	}
	return writeText(ingestOutFile, text)
}
