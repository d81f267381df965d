package gap

import (
	"fmt"
	"strings"

	"github.com/jonathan/ats-engine/internal/types"
)

// ClassifyFit labels the overall resume/JD fit from the ATS score and the
// count of hard-required skills still missing.
func ClassifyFit(score float64, missingRequired int) types.FitClass {
	switch {
	case score >= 75 && missingRequired == 0:
		return types.FitStrong
	case score >= 55 && missingRequired <= 1:
		return types.FitPartial
	default:
		return types.FitWeak
	}
}

// RiskFlags identifies blocking risks in a scored resume/JD pairing.
func RiskFlags(score float64, missingRequired []string) []types.RiskFlag {
	var flags []types.RiskFlag

	if len(missingRequired) > 0 {
		flags = append(flags, types.RiskFlag{
			Flag:     "missing_core_skills",
			Severity: types.SeverityHigh,
			Detail: fmt.Sprintf("required skills listed in the job description are absent: %s",
				strings.Join(missingRequired, ", ")),
		})
	}

	if score < 60 {
		severity := types.SeverityMedium
		if score < 50 {
			severity = types.SeverityHigh
		}
		flags = append(flags, types.RiskFlag{
			Flag:     "low_ats_score",
			Severity: severity,
			Detail:   "ATS score is below the recommended threshold and may trigger automated rejection",
		})
	}

	return flags
}

// HasBlockers reports whether any flag is severe enough to block an
// application outright.
func HasBlockers(flags []types.RiskFlag) bool {
	for _, flag := range flags {
		if flag.Severity == types.SeverityHigh {
			return true
		}
	}
	return false
}
