package types

// AnalysisReport is the complete single-JD analysis: everything the
// pipeline derives for one resume/JD pairing.
type AnalysisReport struct {
	JD         JobDescription    `json:"jd"`
	Role       RoleSignal        `json:"role"`
	Inferred   []InferredSkill   `json:"inferred_skills"`
	Score      ScoreResult       `json:"ats_score"`
	Gap        SkillGapReport    `json:"skill_gap"`
	Confidence KeywordConfidence `json:"keyword_confidence"`
	FitScore   float64           `json:"fit_score"`
	FitClass   FitClass          `json:"fit_class"`
	RiskFlags  []RiskFlag        `json:"risk_flags,omitempty"`
}
