package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/observability"
	"github.com/jonathan/ats-engine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for the analysis engine: JD analysis, scoring, gap analysis, grounding checks, rewriting, batch runs, and run records.

Requires JWT_SECRET. DATABASE_URL enables accounts and run persistence; GEMINI_API_KEY enables the collaborator-backed endpoints.`,
	RunE: runServe,
}

var (
	servePort        int
	serveConcurrency int
	serveJSONLogs    bool
	serveDebug       bool
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().IntVar(&serveConcurrency, "concurrency", 0, "Batch fan-out limit (0 uses the engine default)")
	serveCmd.Flags().BoolVar(&serveJSONLogs, "json-logs", false, "Emit logs as JSON instead of console format")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	logger, err := observability.NewLogger(serveJSONLogs, serveDebug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := server.Config{
		Port:        servePort,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		Concurrency: serveConcurrency,
		Logger:      logger,
	}

	srv, err := server.New(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
