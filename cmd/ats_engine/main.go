// Package main provides the ats_engine command line interface.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ats_engine",
	Short: "ATS resume/job-description matching engine",
	Long:  "ats_engine scores resumes against job descriptions the way applicant tracking systems do: JD keyword extraction, tiered matching, weighted scoring, skill-gap analysis, and grounded rewriting.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
