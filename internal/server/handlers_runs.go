package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/db"
)

// requireDB guards the run-record endpoints. Returns false and writes 503
// when the server runs without persistence.
func (s *Server) requireDB(w http.ResponseWriter) bool {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "persistence not configured")
		return false
	}
	return true
}

// pathID parses the {id} path value as a UUID, writing the error response
// itself on failure.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// handleListRuns lists analysis runs, newest first. Supports role, status,
// fit_class, min_score, and limit query filters.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	q := r.URL.Query()
	filters := db.RunFilters{
		Role:     q.Get("role"),
		Status:   q.Get("status"),
		FitClass: q.Get("fit_class"),
	}
	if v := q.Get("min_score"); v != "" {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil || score < 0 || score > 100 {
			s.errorResponse(w, http.StatusBadRequest, "min_score must be a number between 0 and 100")
			return
		}
		filters.MinScore = score
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 500 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		filters.Limit = limit
	}

	runs, err := s.db.ListRunsFiltered(r.Context(), filters)
	if err != nil {
		s.logger.Error("listing runs", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// handleGetRun returns one run record.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	runID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	run, err := s.db.GetRun(r.Context(), runID)
	if err != nil {
		s.logger.Error("getting run", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleDeleteRun deletes a run and its artifacts.
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	runID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.db.DeleteRun(r.Context(), runID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			s.errorResponse(w, http.StatusNotFound, "run not found")
			return
		}
		s.logger.Error("deleting run", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete run")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRunArtifacts lists a run's artifacts, optionally filtered by step or
// category.
func (s *Server) handleRunArtifacts(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	runID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	artifacts, err := s.db.ListArtifacts(r.Context(), db.ArtifactFilters{
		RunID:    runID,
		Step:     q.Get("step"),
		Category: q.Get("category"),
	})
	if err != nil {
		s.logger.Error("listing artifacts", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to list artifacts")
		return
	}
	if artifacts == nil {
		artifacts = []db.ArtifactSummary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"artifacts": artifacts, "count": len(artifacts)})
}

// handleListBatches lists recent batch runs.
func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 500 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = parsed
	}

	batches, err := s.db.ListBatchRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing batch runs", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to list batch runs")
		return
	}
	if batches == nil {
		batches = []db.BatchRun{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"batches": batches, "count": len(batches)})
}

// handleGetBatch returns one batch run with its entries, ranked by fit score.
func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	if !s.requireDB(w) {
		return
	}
	batchID, ok := s.pathID(w, r)
	if !ok {
		return
	}

	run, err := s.db.GetBatchRun(r.Context(), batchID)
	if err != nil {
		s.logger.Error("getting batch run", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to get batch run")
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "batch run not found")
		return
	}

	entries, err := s.db.ListBatchEntries(r.Context(), batchID)
	if err != nil {
		s.logger.Error("listing batch entries", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to list batch entries")
		return
	}
	if entries == nil {
		entries = []db.BatchEntryRecord{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"batch": run, "entries": entries})
}
