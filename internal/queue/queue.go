// Package queue runs the amqp-backed batch worker: analysis jobs arrive on
// the ingest queue pointing at a resume document in object storage, the
// worker extracts the text, scores it against the job's postings, and
// publishes the outcome on the result queue.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/batch"
	"github.com/jonathan/ats-engine/internal/ingest"
	"github.com/jonathan/ats-engine/internal/types"
)

// Defaults for worker configuration.
const (
	DefaultWorkers     = 4
	DefaultIngestQueue = "analysis_jobs"
	DefaultResultQueue = "analysis_results"
)

// retryAttempts bounds retries on transient failures (downloads, publishes).
const retryAttempts = 3

// Job is one queued batch analysis: a resume document in object storage plus
// the postings to score it against.
type Job struct {
	JobID     string             `json:"job_id"`
	ResumeID  string             `json:"resume_id,omitempty"`
	ObjectKey string             `json:"object_key"`
	Mime      string             `json:"mime"`
	Postings  []types.JobPosting `json:"postings"`
}

// ResultMessage is published on the result queue when a job finishes, in
// either direction.
type ResultMessage struct {
	JobID     string             `json:"job_id"`
	Status    string             `json:"status"` // completed or failed
	Error     string             `json:"error,omitempty"`
	Result    *types.BatchResult `json:"result,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// ObjectStore downloads queued resume documents. Satisfied by Store and by
// test fakes.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Config holds worker configuration.
type Config struct {
	AMQPURL     string
	IngestQueue string
	ResultQueue string
	Workers     int
}

// Worker consumes analysis jobs and publishes results.
type Worker struct {
	cfg       Config
	store     ObjectStore
	processor *batch.Processor
	logger    *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
}

// New returns a Worker. Zero-value config fields fall back to defaults.
func New(cfg Config, store ObjectStore, processor *batch.Processor, logger *zap.Logger) *Worker {
	if cfg.IngestQueue == "" {
		cfg.IngestQueue = DefaultIngestQueue
	}
	if cfg.ResultQueue == "" {
		cfg.ResultQueue = DefaultResultQueue
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		cfg:       cfg,
		store:     store,
		processor: processor,
		logger:    logger,
	}
}

// Run connects to the broker and blocks consuming jobs until the context is
// cancelled or the connection drops.
func (w *Worker) Run(ctx context.Context) error {
	conn, err := amqp.Dial(w.cfg.AMQPURL)
	if err != nil {
		return fmt.Errorf("failed to dial amqp: %w", err)
	}
	defer conn.Close()

	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()

	w.logger.Info("worker pool starting",
		zap.Int("workers", w.cfg.Workers),
		zap.String("ingest_queue", w.cfg.IngestQueue),
		zap.String("result_queue", w.cfg.ResultQueue),
	)

	var wg sync.WaitGroup
	wg.Add(w.cfg.Workers)
	errs := make(chan error, w.cfg.Workers)

	for i := 0; i < w.cfg.Workers; i++ {
		go func(id int) {
			defer wg.Done()
			if err := w.consume(ctx, id); err != nil {
				errs <- err
			}
		}(i + 1)
	}

	wg.Wait()
	close(errs)
	return <-errs
}

// consume is one worker goroutine's consume loop.
func (w *Worker) consume(ctx context.Context, id int) error {
	ch, err := w.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		w.cfg.IngestQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := ch.Consume(
		w.cfg.IngestQueue,
		"",    // consumer tag
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume: %w", err)
	}

	logger := w.logger.With(zap.Int("worker", id))
	logger.Info("worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consume channel closed")
			}
			w.handle(ctx, logger, msg.Body)
		}
	}
}

// handle processes one delivery end to end and publishes the outcome.
func (w *Worker) handle(ctx context.Context, logger *zap.Logger, body []byte) {
	job, err := ParseJob(body)
	if err != nil {
		logger.Error("unparseable job message", zap.Error(err))
		w.publishResult(ResultMessage{
			JobID:     job.JobID,
			Status:    "failed",
			Error:     err.Error(),
			Timestamp: time.Now().UTC(),
		}, logger)
		return
	}

	logger.Info("processing job",
		zap.String("job_id", job.JobID),
		zap.String("object_key", job.ObjectKey),
		zap.Int("postings", len(job.Postings)),
	)

	result := w.process(ctx, job)
	w.publishResult(result, logger)

	if result.Status == "failed" {
		logger.Warn("job failed", zap.String("job_id", job.JobID), zap.String("error", result.Error))
		return
	}
	logger.Info("job completed",
		zap.String("job_id", job.JobID),
		zap.Int("processed", result.Result.Summary.Processed),
		zap.Int("failed", result.Result.Summary.Failed),
	)
}

// process runs one job: download, extract, batch score. Separated from the
// amqp plumbing so it can be exercised directly.
func (w *Worker) process(ctx context.Context, job Job) ResultMessage {
	failed := func(format string, args ...any) ResultMessage {
		return ResultMessage{
			JobID:     job.JobID,
			Status:    "failed",
			Error:     fmt.Sprintf(format, args...),
			Timestamp: time.Now().UTC(),
		}
	}

	if len(job.Postings) == 0 {
		return failed("job carries no postings")
	}

	// Downloads are transient-failure territory; the document store gets
	// retried, extraction and scoring do not.
	data, err := retry(retryAttempts, func() ([]byte, error) {
		return w.store.Download(ctx, job.ObjectKey)
	})
	if err != nil {
		return failed("document download failed: %v", err)
	}

	resumeText, err := ingest.ExtractText(job.Mime, data)
	if err != nil {
		return failed("text extraction failed: %v", err)
	}

	batchResult, err := w.processor.Process(ctx, batch.Request{
		ResumeText: resumeText,
		ResumeID:   job.ResumeID,
		Postings:   job.Postings,
	})
	if err != nil {
		return failed("batch processing failed: %v", err)
	}

	return ResultMessage{
		JobID:     job.JobID,
		Status:    "completed",
		Result:    &batchResult,
		Timestamp: time.Now().UTC(),
	}
}

// publishResult sends the outcome to the result queue, with retries. A
// dropped result is logged, never fatal: the job itself already ran.
func (w *Worker) publishResult(result ResultMessage, logger *zap.Logger) {
	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn == nil {
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		logger.Error("marshaling result", zap.Error(err))
		return
	}

	_, err = retry(retryAttempts, func() (struct{}, error) {
		ch, err := conn.Channel()
		if err != nil {
			return struct{}{}, err
		}
		defer ch.Close()

		if _, err := ch.QueueDeclare(w.cfg.ResultQueue, true, false, false, false, nil); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, ch.Publish(
			"", // default exchange
			w.cfg.ResultQueue,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType: "application/json",
				Body:        body,
			},
		)
	})
	if err != nil {
		logger.Error("publishing result", zap.String("job_id", result.JobID), zap.Error(err))
	}
}

// ParseJob decodes and validates a job message.
func ParseJob(body []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return Job{}, fmt.Errorf("invalid job message: %w", err)
	}
	if job.ObjectKey == "" {
		return job, fmt.Errorf("job message missing object_key")
	}
	if job.Mime == "" {
		job.Mime = ingest.MIMEText
	}
	return job, nil
}

// retry runs fn up to attempts times with linear backoff.
func retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		time.Sleep(time.Duration(500*(i+1)) * time.Millisecond)
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
