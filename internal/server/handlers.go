package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/ats-engine/internal/batch"
	"github.com/jonathan/ats-engine/internal/db"
	"github.com/jonathan/ats-engine/internal/gap"
	"github.com/jonathan/ats-engine/internal/grounding"
	"github.com/jonathan/ats-engine/internal/inference"
	"github.com/jonathan/ats-engine/internal/pipeline"
	"github.com/jonathan/ats-engine/internal/rewrite"
	"github.com/jonathan/ats-engine/internal/types"

	"go.uber.org/zap"
)

// analyzeRequest asks for JD analysis only.
type analyzeRequest struct {
	JDText string `json:"jd_text" validate:"required,min=20"`
}

// scoreRequest asks for the full analysis report. The JD comes in either as
// raw text (analyzed via the collaborator) or as pre-extracted keywords
// (pure scoring, no collaborator call).
type scoreRequest struct {
	ResumeText string            `json:"resume_text" validate:"required,min=20"`
	JDText     string            `json:"jd_text,omitempty"`
	Role       string            `json:"role,omitempty"`
	Seniority  string            `json:"seniority,omitempty"`
	Keywords   *types.KeywordSet `json:"keywords,omitempty"`
}

// gapsRequest asks for a skill-gap report against known keywords.
type gapsRequest struct {
	ResumeText string           `json:"resume_text" validate:"required,min=20"`
	Keywords   types.KeywordSet `json:"keywords"`
	Role       string           `json:"role,omitempty"`
}

// groundRequest asks whether candidate text is supported by a source document.
type groundRequest struct {
	Candidate       string   `json:"candidate" validate:"required"`
	Source          string   `json:"source" validate:"required"`
	AllowedKeywords []string `json:"allowed_keywords,omitempty"`
	MinSimilarity   float64  `json:"min_similarity,omitempty" validate:"gte=0,lte=1"`
}

// decodeAndValidate decodes the request body into dst and runs struct
// validation, writing the error response itself. Returns false when the
// handler should stop.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return false
	}
	return true
}

// requireCollaborator guards endpoints that call the LLM. Returns false and
// writes 503 when no client is configured.
func (s *Server) requireCollaborator(w http.ResponseWriter) bool {
	if s.analyzer == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "analysis collaborator not configured")
		return false
	}
	return true
}

// handleAnalyze extracts the canonical JD from raw posting text.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if !s.requireCollaborator(w) {
		return
	}

	jd, err := s.analyzer.AnalyzeJD(r.Context(), req.JDText)
	if err != nil {
		s.logger.Error("jd analysis failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "jd analysis failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, jd)
}

// handleScore builds the full analysis report for one resume/JD pairing.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	var jd types.JobDescription
	switch {
	case req.JDText != "":
		if !s.requireCollaborator(w) {
			return
		}
		analyzed, err := s.analyzer.AnalyzeJD(r.Context(), req.JDText)
		if err != nil {
			s.logger.Error("jd analysis failed", zap.Error(err))
			s.errorResponse(w, http.StatusBadGateway, "jd analysis failed")
			return
		}
		jd = analyzed
	case req.Keywords != nil && !req.Keywords.IsEmpty():
		jd = types.JobDescription{
			Role:      req.Role,
			Seniority: req.Seniority,
			Keywords:  *req.Keywords,
		}
	default:
		s.errorResponse(w, http.StatusBadRequest, "either jd_text or keywords is required")
		return
	}

	report := pipeline.BuildReport(jd, req.JDText, req.ResumeText)
	s.jsonResponse(w, http.StatusOK, report)
}

// handleGaps returns the skill-gap report for known keywords. No collaborator
// call: keywords must already be extracted.
func (s *Server) handleGaps(w http.ResponseWriter, r *http.Request) {
	var req gapsRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if req.Keywords.IsEmpty() {
		s.errorResponse(w, http.StatusBadRequest, "keywords must not be empty")
		return
	}

	inferred := inference.Infer(req.ResumeText, req.Keywords.All())
	if req.Role != "" {
		inferred = inference.TuneByRole(inferred, req.Role)
	}

	s.jsonResponse(w, http.StatusOK, gap.AnalyzeGap(req.Keywords, req.ResumeText, inferred))
}

// handleGround runs the grounding check for one candidate fragment.
func (s *Server) handleGround(w http.ResponseWriter, r *http.Request) {
	var req groundRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	verdict := grounding.Check(req.Candidate, req.Source, req.AllowedKeywords, req.MinSimilarity)
	s.jsonResponse(w, http.StatusOK, verdict)
}

// handleRewrite runs the grounded rewrite for one resume.
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	var req rewrite.Request
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if req.ResumeText == "" {
		s.errorResponse(w, http.StatusBadRequest, "resume_text is required")
		return
	}
	if s.rewriter == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "rewrite collaborator not configured")
		return
	}

	result, err := s.rewriter.Rewrite(r.Context(), req)
	if err != nil {
		s.logger.Error("rewrite failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "rewrite failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleBatch scores one resume against many postings. When persistence is
// configured the run and its per-JD entries are recorded; record failures are
// logged but never fail a batch the caller already paid for.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batch.Request
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if req.ResumeText == "" || len(req.Postings) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "resume_text and postings are required")
		return
	}
	if s.batch == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "batch processor not configured")
		return
	}

	result, err := s.batch.Process(r.Context(), req)
	if err != nil {
		s.logger.Error("batch processing failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "batch processing failed")
		return
	}

	s.recordBatch(r, req, result)
	s.jsonResponse(w, http.StatusOK, result)
}

// recordBatch persists a finished batch run, best-effort.
func (s *Server) recordBatch(r *http.Request, req batch.Request, result types.BatchResult) {
	if s.db == nil {
		return
	}
	ctx := r.Context()

	batchID, err := s.db.CreateBatchRun(ctx, req.ResumeID, result.Summary.TotalJDs)
	if err != nil {
		s.logger.Error("recording batch run", zap.Error(err))
		return
	}
	for _, entry := range result.Results {
		failed := entry.Error != ""
		if err := s.db.SaveBatchEntry(ctx, batchID, entry.JDID, entry.Title,
			entry.ATSScore, entry.FitScore, failed, entry); err != nil {
			s.logger.Error("recording batch entry", zap.String("jd_id", entry.JDID), zap.Error(err))
		}
	}
	if err := s.db.CompleteBatchRun(ctx, batchID, result.Summary.Processed,
		result.Summary.Failed, result.Summary.AverageScore, db.RunStatusCompleted); err != nil {
		s.logger.Error("completing batch run", zap.Error(err))
	}
}
