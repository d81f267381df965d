package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BatchRun represents one batch scoring run: a resume scored against many
// job descriptions in a single call
type BatchRun struct {
	ID           uuid.UUID  `json:"id"`
	ResumeID     string     `json:"resume_id,omitempty"`
	TotalJDs     int        `json:"total_jds"`
	Processed    int        `json:"processed"`
	Failed       int        `json:"failed"`
	AverageScore float64    `json:"average_score"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// BatchEntryRecord is one per-JD row of a batch run, stored with its full
// entry payload so listings can render without re-scoring
type BatchEntryRecord struct {
	ID       uuid.UUID `json:"id"`
	BatchID  uuid.UUID `json:"batch_id"`
	JDID     string    `json:"jd_id"`
	Title    string    `json:"title"`
	ATSScore float64   `json:"ats_score"`
	FitScore float64   `json:"fit_score"`
	Failed   bool      `json:"failed"`
	Entry    []byte    `json:"entry"`
}

// CreateBatchRun creates a batch run record and returns its ID
func (db *DB) CreateBatchRun(ctx context.Context, resumeID string, totalJDs int) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO batch_runs (resume_id, total_jds, status)
		 VALUES ($1, $2, 'running')
		 RETURNING id`,
		resumeID, totalJDs,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create batch run: %w", err)
	}
	return id, nil
}

// CompleteBatchRun stamps the summary columns and marks the run completed
func (db *DB) CompleteBatchRun(ctx context.Context, batchID uuid.UUID, processed, failed int, averageScore float64, status string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE batch_runs
		 SET processed = $1, failed = $2, average_score = $3, status = $4, completed_at = NOW()
		 WHERE id = $5`,
		processed, failed, averageScore, status, batchID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete batch run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("batch run not found: %s", batchID)
	}
	return nil
}

// SaveBatchEntry stores one per-JD entry of a batch run. The full entry is
// kept as JSON alongside the sortable score columns.
func (db *DB) SaveBatchEntry(ctx context.Context, batchID uuid.UUID, jdID, title string, atsScore, fitScore float64, failed bool, entry any) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal batch entry: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO batch_entries (batch_id, jd_id, title, ats_score, fit_score, failed, entry)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (batch_id, jd_id) DO UPDATE
		 SET title = $3, ats_score = $4, fit_score = $5, failed = $6, entry = $7`,
		batchID, jdID, title, atsScore, fitScore, failed, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save batch entry %s: %w", jdID, err)
	}
	return nil
}

// GetBatchRun retrieves a batch run by ID. Returns nil if it does not exist.
func (db *DB) GetBatchRun(ctx context.Context, batchID uuid.UUID) (*BatchRun, error) {
	var run BatchRun
	err := db.pool.QueryRow(ctx,
		`SELECT id, COALESCE(resume_id, ''), total_jds, processed, failed,
		        average_score, status, created_at, completed_at
		 FROM batch_runs WHERE id = $1`,
		batchID,
	).Scan(&run.ID, &run.ResumeID, &run.TotalJDs, &run.Processed, &run.Failed,
		&run.AverageScore, &run.Status, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get batch run: %w", err)
	}
	return &run, nil
}

// ListBatchEntries retrieves a batch run's entries ordered by fit score descending
func (db *DB) ListBatchEntries(ctx context.Context, batchID uuid.UUID) ([]BatchEntryRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, batch_id, jd_id, COALESCE(title, ''), ats_score, fit_score, failed, entry
		 FROM batch_entries WHERE batch_id = $1
		 ORDER BY fit_score DESC, jd_id ASC`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch entries: %w", err)
	}
	defer rows.Close()

	var entries []BatchEntryRecord
	for rows.Next() {
		var e BatchEntryRecord
		if err := rows.Scan(&e.ID, &e.BatchID, &e.JDID, &e.Title, &e.ATSScore,
			&e.FitScore, &e.Failed, &e.Entry); err != nil {
			return nil, fmt.Errorf("failed to scan batch entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ListBatchRuns retrieves recent batch runs
func (db *DB) ListBatchRuns(ctx context.Context, limit int) ([]BatchRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, COALESCE(resume_id, ''), total_jds, processed, failed,
		        average_score, status, created_at, completed_at
		 FROM batch_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch runs: %w", err)
	}
	defer rows.Close()

	var runs []BatchRun
	for rows.Next() {
		var run BatchRun
		if err := rows.Scan(&run.ID, &run.ResumeID, &run.TotalJDs, &run.Processed, &run.Failed,
			&run.AverageScore, &run.Status, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
