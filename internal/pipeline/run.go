// Package pipeline provides the high-level orchestration for a single
// resume/JD analysis: JD analysis, role detection, skill inference, scoring,
// gap analysis, and the optional grounded rewrite, with progress reporting
// and best-effort persistence.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/ats-engine/internal/analyzer"
	"github.com/jonathan/ats-engine/internal/batch"
	"github.com/jonathan/ats-engine/internal/db"
	"github.com/jonathan/ats-engine/internal/gap"
	"github.com/jonathan/ats-engine/internal/inference"
	"github.com/jonathan/ats-engine/internal/llm"
	"github.com/jonathan/ats-engine/internal/rewrite"
	"github.com/jonathan/ats-engine/internal/scoring"
	"github.com/jonathan/ats-engine/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for running the single-JD pipeline
type Options struct {
	ResumeText string
	JDText     string
	JobURL     string // recorded on the run when the JD came from a URL

	// Structured resume view for the rewrite step. When Rewrite is false
	// these are ignored.
	Rewrite bool
	Summary string
	Bullets []string
	Skills  []string

	DB         *db.DB // optional; nil disables persistence
	OnProgress ProgressCallback
}

// Outcome is everything one pipeline run produced
type Outcome struct {
	RunID   uuid.UUID            `json:"run_id,omitempty"`
	Report  types.AnalysisReport `json:"report"`
	Rewrite *rewrite.Result      `json:"rewrite,omitempty"`
}

// Runner drives the single-JD pipeline
type Runner struct {
	analyzer *analyzer.Analyzer
	rewriter *rewrite.Rewriter
}

// New returns a Runner backed by the given LLM client
func New(client llm.Client) *Runner {
	return &Runner{
		analyzer: analyzer.New(client),
		rewriter: rewrite.New(client),
	}
}

// BuildReport derives the full analysis report for one resume/JD pairing.
// It is pure: the JD has already been analyzed, so no collaborator is called.
func BuildReport(jd types.JobDescription, jdText, resumeText string) types.AnalysisReport {
	role := inference.DetectRole(jdText, resumeText)
	inferred := inference.Infer(resumeText, jd.Keywords.All())
	inferred = inference.TuneByRole(inferred, role.Role)

	score := scoring.ScoreWithInferred(jd.Keywords, resumeText, inferred)
	gapReport := gap.AnalyzeGap(jd.Keywords, resumeText, inferred)

	return types.AnalysisReport{
		JD:         jd,
		Role:       role,
		Inferred:   inferred,
		Score:      score,
		Gap:        gapReport,
		Confidence: gap.GroupConfidence(jd.Keywords, resumeText),
		FitScore:   batch.FitScore(score, gapReport),
		FitClass:   gap.ClassifyFit(score.Score, len(gapReport.Missing.Required)),
		RiskFlags:  gap.RiskFlags(score.Score, score.MissingRequired),
	}
}

// Run executes the pipeline: analyze the JD, build the report, and rewrite
// when requested. When a database is configured, the run and its artifacts
// are recorded; persistence failures fail the run rather than silently
// dropping records.
func (r *Runner) Run(ctx context.Context, opts Options) (*Outcome, error) {
	r.emit(opts, "analyze", db.CategoryAnalysis, "Analyzing job description", nil)

	jd, err := r.analyzer.AnalyzeJD(ctx, opts.JDText)
	if err != nil {
		return nil, fmt.Errorf("jd analysis failed: %w", err)
	}

	runID, err := r.createRun(ctx, opts, jd)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{RunID: runID}

	r.emit(opts, "score", db.CategoryScoring, "Scoring resume against extracted keywords", nil)
	outcome.Report = BuildReport(jd, opts.JDText, opts.ResumeText)

	if opts.Rewrite {
		r.emit(opts, "rewrite", db.CategoryRewrite, "Rewriting resume content with grounding validation", nil)
		result, err := r.rewriter.Rewrite(ctx, rewrite.Request{
			Summary:    opts.Summary,
			Bullets:    opts.Bullets,
			Skills:     opts.Skills,
			ResumeText: opts.ResumeText,
			Keywords:   jd.Keywords,
			Inferred:   outcome.Report.Inferred,
			Baseline:   jd.Keywords,
		})
		if err != nil {
			r.failRun(ctx, opts, runID)
			return nil, fmt.Errorf("rewrite failed: %w", err)
		}
		outcome.Rewrite = &result
	}

	if err := r.persist(ctx, opts, runID, outcome); err != nil {
		r.failRun(ctx, opts, runID)
		return nil, err
	}

	r.emit(opts, "done", db.CategoryAnalysis, "Analysis complete", outcome.Report)
	return outcome, nil
}

// createRun opens the persistent run record, when persistence is configured
func (r *Runner) createRun(ctx context.Context, opts Options, jd types.JobDescription) (uuid.UUID, error) {
	if opts.DB == nil {
		return uuid.Nil, nil
	}

	runID, err := opts.DB.CreateRun(ctx, jd.Role, jd.Seniority, opts.JobURL)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}

	if err := opts.DB.SaveTextArtifact(ctx, runID, db.StepJDText, db.CategoryIngestion, opts.JDText); err != nil {
		return uuid.Nil, err
	}
	if err := opts.DB.SaveTextArtifact(ctx, runID, db.StepResumeText, db.CategoryIngestion, opts.ResumeText); err != nil {
		return uuid.Nil, err
	}
	if err := opts.DB.SaveArtifact(ctx, runID, db.StepJDAnalysis, db.CategoryAnalysis, jd); err != nil {
		return uuid.Nil, err
	}
	return runID, nil
}

// persist records the report artifacts and closes out the run
func (r *Runner) persist(ctx context.Context, opts Options, runID uuid.UUID, outcome *Outcome) error {
	if opts.DB == nil {
		return nil
	}

	if err := opts.DB.SaveArtifact(ctx, runID, db.StepAnalysisReport, db.CategoryScoring, outcome.Report); err != nil {
		return err
	}
	if outcome.Rewrite != nil {
		if err := opts.DB.SaveArtifact(ctx, runID, db.StepRewriteResult, db.CategoryRewrite, outcome.Rewrite); err != nil {
			return err
		}
	}
	if err := opts.DB.RecordRunScore(ctx, runID, outcome.Report.Score.Score, string(outcome.Report.FitClass)); err != nil {
		return err
	}
	return opts.DB.CompleteRun(ctx, runID, db.RunStatusCompleted)
}

// failRun marks the run failed; the original error takes precedence over any
// bookkeeping error here
func (r *Runner) failRun(ctx context.Context, opts Options, runID uuid.UUID) {
	if opts.DB == nil || runID == uuid.Nil {
		return
	}
	_ = opts.DB.CompleteRun(ctx, runID, db.RunStatusFailed)
}

// emit calls the progress callback if configured
func (r *Runner) emit(opts Options, step, category, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			Content:  content,
		})
	}
}
