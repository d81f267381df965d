package types

// GroundingVerdict is the accept/reject outcome for one candidate fragment,
// together with the token-overlap ratio that produced it.
type GroundingVerdict struct {
	Grounded bool    `json:"grounded"`
	Ratio    float64 `json:"ratio"`
	Reason   string  `json:"reason,omitempty"`
}

// RewriteResult is the sanitized output of the grounded rewrite pipeline.
// Rejected fragments are reported, never silently dropped.
type RewriteResult struct {
	Summary         string   `json:"summary"`
	Bullets         []string `json:"bullets"`
	Skills          []string `json:"skills"`
	RejectedBullets []string `json:"rejected_bullets,omitempty"`
	RejectedSkills  []string `json:"rejected_skills,omitempty"`
	SummaryRejected bool     `json:"summary_rejected,omitempty"`
	UsedFallback    bool     `json:"used_fallback,omitempty"`
}
