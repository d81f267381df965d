// Package scoring aggregates per-keyword match results into the 0-100 ATS
// score with category breakdowns. The weights here are the engine's scoring
// contract: category weights sum to 100 and every change to them shifts all
// downstream fit scores, so they are tested constants, not tunables.
package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/matching"
	"github.com/jonathan/ats-engine/internal/textnorm"
	"github.com/jonathan/ats-engine/internal/types"
)

// Category weights. Empty categories are excluded from the mix and the
// remaining weights renormalized, so a JD with only required skills is
// scored on required skills alone.
const (
	requiredWeight = 70.0
	optionalWeight = 20.0
	toolsWeight    = 10.0
)

// Per-tier credit. Weaker evidence earns less of the keyword's weight.
const (
	exactCredit     = 1.0
	aliasCredit     = 1.0
	compositeCredit = 0.85
	fuzzyCredit     = 0.75
)

// ATS floor: a resume matching under 40% of hard requirements cannot score
// above 45, whatever the optional and tools columns say.
const (
	floorRequiredCoverage = 0.4
	floorCap              = 45.0
)

// InferredTokenThreshold gates which inferred skills may contribute their
// tokens to matching. Below it, the evidence is too weak to count.
const InferredTokenThreshold = 0.8

// Score computes the detailed ATS score for one keyword set against resume text.
func Score(keywords types.KeywordSet, resumeText string) types.ScoreResult {
	return ScoreWithInferred(keywords, resumeText, nil)
}

// ScoreWithInferred additionally folds high-confidence inferred skills into
// the match token set. The keyword set itself is never mutated: inference
// widens the evidence, not the requirements.
func ScoreWithInferred(keywords types.KeywordSet, resumeText string, inferred []types.InferredSkill) types.ScoreResult {
	tokens := textnorm.Tokenize(resumeText)
	for _, s := range inferred {
		if s.Confidence >= InferredTokenThreshold {
			for _, tok := range textnorm.Fields(s.Skill) {
				tokens[tok] = true
			}
		}
	}

	result := types.ScoreResult{
		Coverage: make(map[types.Category]types.CategoryCoverage, len(types.Categories)),
		Tiers:    make(map[string]types.MatchTier),
	}

	var weightSum, creditSum float64
	for _, cat := range types.Categories {
		list := keywords.Get(cat)

		var matched, missing []string
		var credit float64
		for _, kw := range list {
			m := matching.Match(kw, tokens)
			result.Tiers[kw] = m.Tier
			if m.Tier.Matched() {
				matched = append(matched, kw)
				credit += tierCredit(m.Tier)
				continue
			}
			missing = append(missing, kw)
			if cat == types.CategoryRequired && !dictionary.IsComposite(strings.ToLower(kw)) {
				result.MissingRequired = append(result.MissingRequired, kw)
			}
		}

		result.Matched.Set(cat, matched)
		result.Missing.Set(cat, missing)
		result.Coverage[cat] = coverageFor(len(matched), len(list))

		if len(list) > 0 {
			w := categoryWeight(cat)
			weightSum += w
			creditSum += w * (credit / float64(len(list)))
		}
	}

	score := 0.0
	if weightSum > 0 {
		score = creditSum / weightSum * 100
	}

	// ATS floor applies only when the JD actually has hard requirements.
	if total := len(keywords.Required); total > 0 {
		coverage := float64(len(result.Matched.Required)) / float64(total)
		if coverage < floorRequiredCoverage {
			score = math.Min(score, floorCap)
		}
	}

	result.Score = clampScore(score)
	result.Risk = RiskFor(result.Score)
	if len(result.MissingRequired) > 0 {
		result.Warnings = []string{"Missing critical required skills"}
	}
	return result
}

// RiskFor grades the ATS rejection risk implied by a score.
func RiskFor(score float64) types.RiskLevel {
	switch {
	case score < 50:
		return types.RiskHigh
	case score < 70:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}

func tierCredit(tier types.MatchTier) float64 {
	switch tier {
	case types.TierExact:
		return exactCredit
	case types.TierAlias:
		return aliasCredit
	case types.TierComposite:
		return compositeCredit
	case types.TierFuzzy:
		return fuzzyCredit
	}
	return 0
}

func categoryWeight(cat types.Category) float64 {
	switch cat {
	case types.CategoryRequired:
		return requiredWeight
	case types.CategoryOptional:
		return optionalWeight
	case types.CategoryTools:
		return toolsWeight
	}
	return 0
}

// coverageFor reports matched/total counts; an empty category is vacuously
// covered rather than zero, so thin JDs do not read as catastrophic gaps.
func coverageFor(matched, total int) types.CategoryCoverage {
	cov := types.CategoryCoverage{Matched: matched, Total: total}
	if total == 0 {
		cov.Percent = 100
		return cov
	}
	cov.Percent = round1(float64(matched) / float64(total) * 100)
	return cov
}

func clampScore(score float64) float64 {
	return round1(math.Max(0, math.Min(100, score)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
