package types

// GapSeverity grades how serious the skill gap between resume and JD is.
type GapSeverity string

// Gap severities, best to worst.
const (
	SeverityLow      GapSeverity = "low"
	SeverityMedium   GapSeverity = "medium"
	SeverityHigh     GapSeverity = "high"
	SeverityCritical GapSeverity = "critical"
)

// RecommendationType classifies skill-gap recommendations.
type RecommendationType string

// Recommendation types in emission order.
const (
	RecommendationCritical RecommendationType = "critical"
	RecommendationWarning  RecommendationType = "warning"
	RecommendationInfo     RecommendationType = "info"
	RecommendationQuickWin RecommendationType = "quick_win"
)

// Recommendation is one typed, ordered entry in a gap report.
type Recommendation struct {
	Type    RecommendationType `json:"type"`
	Message string             `json:"message"`
	Skills  []string           `json:"skills,omitempty"`
	Action  string             `json:"action"`
}

// SkillGapReport partitions every JD keyword into present or missing per
// category and derives coverage, severity, and recommendations. It is a
// one-request derived value, immutable once computed.
type SkillGapReport struct {
	Present         KeywordSet           `json:"present_skills"`
	Missing         KeywordSet           `json:"missing_skills"`
	Coverage        map[Category]float64 `json:"coverage"`
	Severity        GapSeverity          `json:"gap_severity"`
	Recommendations []Recommendation     `json:"recommendations"`
	PrioritySkills  []string             `json:"priority_skills"`
}

// FitClass labels the overall resume/JD fit.
type FitClass string

// Fit classes produced by ClassifyFit.
const (
	FitStrong  FitClass = "strong"
	FitPartial FitClass = "partial"
	FitWeak    FitClass = "weak"
)

// Explanation returns the human reading of a fit class.
func (f FitClass) Explanation() string {
	switch f {
	case FitStrong:
		return "Resume strongly matches the job description with good ATS coverage and no missing required skills."
	case FitPartial:
		return "Resume partially matches the job description. Some required skills or ATS coverage gaps may reduce shortlisting chances."
	case FitWeak:
		return "Resume is a weak fit for the job description due to low ATS coverage or multiple missing required skills."
	}
	return ""
}

// RiskFlag marks one structural risk found in a resume/JD pairing.
type RiskFlag struct {
	Flag     string      `json:"flag"`
	Severity GapSeverity `json:"severity"`
	Detail   string      `json:"detail,omitempty"`
}
