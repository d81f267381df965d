package types

// MatchTier classifies how a keyword was found in resume text.
type MatchTier string

// Match tiers, strongest first. A keyword reports exactly one tier.
const (
	TierExact     MatchTier = "exact"
	TierAlias     MatchTier = "alias"
	TierComposite MatchTier = "composite"
	TierFuzzy     MatchTier = "fuzzy"
	TierNone      MatchTier = "none"
)

// Matched reports whether the tier represents a successful match.
func (t MatchTier) Matched() bool {
	return t != TierNone && t != ""
}

// MatchResult records the outcome of matching one keyword against a token set.
// Tier none implies MatchedTokens is empty and the keyword appears in no
// matched-keyword output.
type MatchResult struct {
	Keyword       string    `json:"keyword"`
	Tier          MatchTier `json:"tier"`
	MatchedTokens []string  `json:"matched_tokens,omitempty"`
}
