package types

// InferredSkill is a skill derived from resume evidence rather than stated
// explicitly. Confidence is set once at inference time and adjusted exactly
// once by role tuning, which returns a new slice rather than mutating.
type InferredSkill struct {
	Skill        string  `json:"skill"`
	DerivedFrom  string  `json:"derived_from"`
	Confidence   float64 `json:"confidence"`
	EvidenceText string  `json:"evidence_text"`
	Reason       string  `json:"reason,omitempty"`
}

// RoleSignal is the role-detector verdict for one (JD, resume) pair.
type RoleSignal struct {
	Role       string         `json:"role"`
	Confidence float64        `json:"confidence"`
	Signals    map[string]int `json:"signals"`
}

// KeywordConfidence groups JD keywords by how confidently the resume
// supports them: high when the matcher matches, medium on partial token
// overlap, low otherwise.
type KeywordConfidence struct {
	High   KeywordSet `json:"high"`
	Medium KeywordSet `json:"medium"`
	Low    KeywordSet `json:"low"`
}
