package types

// JobPosting is one batch input: a JD identified for re-correlation, since
// batch output is ordered by fit score rather than input order.
type JobPosting struct {
	JDID  string `json:"jd_id"`
	Title string `json:"title"`
	Text  string `json:"jd_text"`
}

// GapSummary is the condensed skill-gap view carried on a batch entry.
type GapSummary struct {
	Severity             GapSeverity `json:"severity"`
	RequiredCoverage     float64     `json:"required_coverage"`
	MissingRequiredCount int         `json:"missing_required_count"`
}

// KeywordCounts is the condensed coverage view carried on a batch entry.
type KeywordCounts struct {
	RequiredMatched int `json:"required_matched"`
	RequiredTotal   int `json:"required_total"`
	ToolsMatched    int `json:"tools_matched"`
	ToolsTotal      int `json:"tools_total"`
}

// BatchEntry is the per-JD outcome of a batch run. Failed entries carry
// Error and no scores; successful entries carry the full summary.
type BatchEntry struct {
	JDID            string           `json:"jd_id"`
	Title           string           `json:"title"`
	Role            string           `json:"role,omitempty"`
	Seniority       string           `json:"seniority,omitempty"`
	ATSScore        float64          `json:"ats_score"`
	FitScore        float64          `json:"fit_score"`
	SkillGap        GapSummary       `json:"skill_gap"`
	Keywords        KeywordCounts    `json:"keywords"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	RoleMatch       float64          `json:"role_match"`
	Error           string           `json:"error,omitempty"`
	Failed          bool             `json:"-"`
}

// MatchRef points the batch summary at one entry by id, title, and scores.
type MatchRef struct {
	JDID     string  `json:"jd_id"`
	Title    string  `json:"title"`
	Score    float64 `json:"score"`
	FitScore float64 `json:"fit_score"`
}

// BatchSummary aggregates a batch run.
type BatchSummary struct {
	TotalJDs     int       `json:"total_jds"`
	Processed    int       `json:"processed"`
	Failed       int       `json:"failed"`
	BestMatch    *MatchRef `json:"best_match"`
	WorstMatch   *MatchRef `json:"worst_match"`
	AverageScore float64   `json:"average_score"`
}

// BatchResult is the full outcome of scoring one resume against many JDs.
// Results are sorted by fit score, descending.
type BatchResult struct {
	Summary  BatchSummary `json:"summary"`
	Results  []BatchEntry `json:"results"`
	ResumeID string       `json:"resume_id,omitempty"`
}
