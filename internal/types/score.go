package types

// RiskLevel grades how likely a resume is to be filtered out by an ATS.
type RiskLevel string

// Risk levels derived from the final score.
const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// CategoryCoverage summarizes match counts for one keyword category.
type CategoryCoverage struct {
	Matched int     `json:"matched"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// ScoreResult is the detailed outcome of scoring one resume against one
// keyword set. Every input keyword lands in exactly one of Matched/Missing
// for its category.
type ScoreResult struct {
	Score           float64                       `json:"score"`
	Risk            RiskLevel                     `json:"risk"`
	Matched         KeywordSet                    `json:"matched_keywords"`
	Missing         KeywordSet                    `json:"missing_keywords"`
	MissingRequired []string                      `json:"missing_required"`
	Coverage        map[Category]CategoryCoverage `json:"coverage"`
	Tiers           map[string]MatchTier          `json:"tiers,omitempty"`
	Warnings        []string                      `json:"warnings,omitempty"`
}

// PlainScore is the unweighted percentage scorer output, with a human verdict.
type PlainScore struct {
	Score   float64  `json:"score"`
	Verdict string   `json:"verdict"`
	Matched []string `json:"matched_keywords"`
	Missing []string `json:"missing_keywords"`
}
