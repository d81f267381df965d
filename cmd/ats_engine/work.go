package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/batch"
	"github.com/jonathan/ats-engine/internal/llm"
	"github.com/jonathan/ats-engine/internal/observability"
	"github.com/jonathan/ats-engine/internal/queue"
)

var workCmd = &cobra.Command{
	Use:   "work",
	Short: "Run the queue worker for asynchronous batch analysis",
	Long:  `Consume analysis jobs from RabbitMQ, download the referenced resume document from object storage, run the batch pipeline, and publish each outcome to the result queue. Blocks until interrupted.`,
	RunE:  runWork,
}

var (
	workAMQPURL     string
	workIngestQueue string
	workResultQueue string
	workBucket      string
	workS3Endpoint  string
	workWorkers     int
	workConcurrency int
	workAPIKey      string
	workJSONLogs    bool
	workDebug       bool
)

func init() {
	workCmd.Flags().StringVar(&workAMQPURL, "amqp-url", "", "RabbitMQ connection URL (defaults to AMQP_URL env var)")
	workCmd.Flags().StringVar(&workIngestQueue, "ingest-queue", queue.DefaultIngestQueue, "Queue carrying analysis jobs")
	workCmd.Flags().StringVar(&workResultQueue, "result-queue", queue.DefaultResultQueue, "Queue receiving completed analyses")
	workCmd.Flags().StringVar(&workBucket, "bucket", "", "S3 bucket holding queued resume documents (defaults to S3_BUCKET env var)")
	workCmd.Flags().StringVar(&workS3Endpoint, "s3-endpoint", "", "Custom S3 endpoint for S3-compatible stores (defaults to S3_ENDPOINT env var)")
	workCmd.Flags().IntVar(&workWorkers, "workers", queue.DefaultWorkers, "Concurrent consumer goroutines")
	workCmd.Flags().IntVar(&workConcurrency, "concurrency", 0, "Per-job batch fan-out limit (0 uses the engine default)")
	workCmd.Flags().StringVar(&workAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	workCmd.Flags().BoolVar(&workJSONLogs, "json-logs", false, "Emit logs as JSON instead of console format")
	workCmd.Flags().BoolVar(&workDebug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(workCmd)
}

func runWork(_ *cobra.Command, _ []string) error {
	apiKey, err := resolveAPIKey(workAPIKey)
	if err != nil {
		return err
	}

	amqpURL := workAMQPURL
	if amqpURL == "" {
		amqpURL = os.Getenv("AMQP_URL")
	}
	if amqpURL == "" {
		return fmt.Errorf("AMQP_URL environment variable or --amqp-url flag is required")
	}

	bucket := workBucket
	if bucket == "" {
		bucket = os.Getenv("S3_BUCKET")
	}
	if bucket == "" {
		return fmt.Errorf("S3_BUCKET environment variable or --bucket flag is required")
	}

	endpoint := workS3Endpoint
	if endpoint == "" {
		endpoint = os.Getenv("S3_ENDPOINT")
	}

	logger, err := observability.NewLogger(workJSONLogs, workDebug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := queue.NewStore(ctx, bucket, endpoint)
	if err != nil {
		return fmt.Errorf("failed to create object store: %w", err)
	}

	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	worker := queue.New(queue.Config{
		AMQPURL:     amqpURL,
		IngestQueue: workIngestQueue,
		ResultQueue: workResultQueue,
		Workers:     workWorkers,
	}, store, batch.New(client, workConcurrency), logger)

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("worker stopped")
	return nil
}
