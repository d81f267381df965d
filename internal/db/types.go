package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents an analysis run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	RoleTitle   string     `json:"role_title"`
	Seniority   string     `json:"seniority,omitempty"`
	JobURL      string     `json:"job_url,omitempty"`
	Status      string     `json:"status"`
	ATSScore    *float64   `json:"ats_score,omitempty"`
	FitClass    string     `json:"fit_class,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Run status constants
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ArtifactStep constants for known artifact types
const (
	StepJDText         = "jd_text"
	StepResumeText     = "resume_text"
	StepJDAnalysis     = "jd_analysis"
	StepRoleSignal     = "role_signal"
	StepInferredSkills = "inferred_skills"
	StepScoreReport    = "score_report"
	StepGapReport      = "gap_report"
	StepRewriteResult  = "rewrite_result"
	StepAnalysisReport = "analysis_report"
)

// Artifact category constants
const (
	CategoryIngestion = "ingestion"
	CategoryAnalysis  = "analysis"
	CategoryScoring   = "scoring"
	CategoryRewrite   = "rewrite"
)
