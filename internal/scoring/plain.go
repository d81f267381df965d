package scoring

import (
	"strings"

	"github.com/jonathan/ats-engine/internal/types"
)

// Plain is the flat, unweighted scorer: plain substring matching over one
// keyword list, with a human verdict. Useful for quick previews; the
// detailed scorer is the real contract.
func Plain(keywords []string, resumeText string) types.PlainScore {
	resumeLower := strings.ToLower(resumeText)

	var matched, missing []string
	for _, kw := range keywords {
		if kw != "" && strings.Contains(resumeLower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	score := round1(float64(len(matched)) / float64(max(len(keywords), 1)) * 100)
	return types.PlainScore{
		Score:   score,
		Verdict: verdictFor(score),
		Matched: matched,
		Missing: missing,
	}
}

func verdictFor(score float64) string {
	switch {
	case score >= 80:
		return "Excellent ATS match"
	case score >= 60:
		return "Good match"
	case score >= 40:
		return "Moderate match"
	default:
		return "Weak match"
	}
}
