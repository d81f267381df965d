// Package gap analyzes the skill gap between a job description's keyword
// set and a resume: which skills are present, which are missing, how severe
// the shortfall is, and what to do about it.
package gap

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/matching"
	"github.com/jonathan/ats-engine/internal/scoring"
	"github.com/jonathan/ats-engine/internal/textnorm"
	"github.com/jonathan/ats-engine/internal/types"
)

const quickWinLimit = 5

// AnalyzeGap partitions every JD keyword into present or missing per
// category, merges high-confidence inferred skills into the present side,
// and derives coverage, severity, recommendations, and a priority list.
func AnalyzeGap(keywords types.KeywordSet, resumeText string, inferred []types.InferredSkill) types.SkillGapReport {
	tokens := textnorm.Tokenize(resumeText)

	report := types.SkillGapReport{
		Coverage: make(map[types.Category]float64, len(types.Categories)),
	}

	for _, cat := range types.Categories {
		var present, missing []string
		for _, keyword := range keywords.Get(cat) {
			if matching.Match(keyword, tokens).Tier.Matched() {
				present = append(present, keyword)
			} else {
				missing = append(missing, keyword)
			}
		}
		present, missing = mergeInferred(present, missing, inferred)
		report.Present.Set(cat, present)
		report.Missing.Set(cat, missing)
		report.Coverage[cat] = coveragePercent(len(present), len(keywords.Get(cat)))
	}

	requiredCoverage := report.Coverage[types.CategoryRequired]
	report.Severity = severityFor(requiredCoverage, len(report.Missing.Required))
	report.Recommendations = recommendations(report.Missing, report.Present, requiredCoverage)
	report.PrioritySkills = prioritizeMissing(report.Missing.Required, keywords)
	return report
}

// mergeInferred moves keywords evidenced by high-confidence inferred skills
// from missing to present. Keywords move, never duplicate, so the partition
// stays exact: every keyword sits in exactly one of the two lists.
func mergeInferred(present, missing []string, inferred []types.InferredSkill) ([]string, []string) {
	if len(inferred) == 0 || len(missing) == 0 {
		return present, missing
	}
	remaining := make([]string, 0, len(missing))
	for _, keyword := range missing {
		if inferredCovers(keyword, inferred) {
			present = append(present, keyword)
		} else {
			remaining = append(remaining, keyword)
		}
	}
	return present, remaining
}

func inferredCovers(keyword string, inferred []types.InferredSkill) bool {
	keywordLower := strings.ToLower(keyword)
	for _, skill := range inferred {
		if skill.Confidence < scoring.InferredTokenThreshold {
			continue
		}
		name := strings.ToLower(skill.Skill)
		if strings.Contains(keywordLower, name) || strings.Contains(name, keywordLower) {
			return true
		}
	}
	return false
}

// coveragePercent treats an empty category as vacuously covered, consistent
// with the scorer's weighting policy.
func coveragePercent(present, total int) float64 {
	if total == 0 {
		return 100
	}
	return round1(float64(present) / float64(total) * 100)
}

func severityFor(requiredCoverage float64, missingRequired int) types.GapSeverity {
	switch {
	case requiredCoverage >= 80 && missingRequired == 0:
		return types.SeverityLow
	case requiredCoverage >= 60 && missingRequired <= 2:
		return types.SeverityMedium
	case requiredCoverage >= 40:
		return types.SeverityHigh
	default:
		return types.SeverityCritical
	}
}

func recommendations(missing, present types.KeywordSet, requiredCoverage float64) []types.Recommendation {
	var recs []types.Recommendation

	if n := len(missing.Required); n > 0 {
		recs = append(recs, types.Recommendation{
			Type:    types.RecommendationCritical,
			Message: fmt.Sprintf("Resume is missing %d required skill(s) essential for this role", n),
			Skills:  firstN(missing.Required, 5),
			Action:  "Consider highlighting related experience or taking courses to develop these skills.",
		})
	}

	if requiredCoverage < 60 {
		recs = append(recs, types.Recommendation{
			Type:    types.RecommendationWarning,
			Message: fmt.Sprintf("Only %.1f%% of required skills are present in the resume", requiredCoverage),
			Action:  "Consider tailoring the resume more closely to the job description.",
		})
	}

	if len(missing.Tools) > 0 {
		recs = append(recs, types.Recommendation{
			Type:    types.RecommendationInfo,
			Message: fmt.Sprintf("Consider adding experience with: %s", strings.Join(firstN(missing.Tools, 3), ", ")),
			Skills:  firstN(missing.Tools, 5),
			Action:  "If you have experience with similar tools, mention them explicitly.",
		})
	}

	if wins := quickWins(missing, present); len(wins) > 0 {
		recs = append(recs, types.Recommendation{
			Type:    types.RecommendationQuickWin,
			Message: "These skills may be quick to surface given the experience already listed",
			Skills:  wins,
			Action:  "Review past work; these are often already in hand but unmentioned.",
		})
	}

	return recs
}

// quickWins returns skills adjacent to ones already on the resume that the
// JD wants but the resume never mentions.
func quickWins(missing, present types.KeywordSet) []string {
	var wins []string
	seen := make(map[string]bool)
	for _, presentSkill := range present.All() {
		for _, related := range dictionary.SkillAdjacency[strings.ToLower(presentSkill)] {
			if seen[related] || !missingMentions(missing, related) {
				continue
			}
			seen[related] = true
			wins = append(wins, related)
		}
	}
	if len(wins) > quickWinLimit {
		wins = wins[:quickWinLimit]
	}
	return wins
}

func missingMentions(missing types.KeywordSet, related string) bool {
	for _, keyword := range missing.All() {
		keywordLower := strings.ToLower(keyword)
		if strings.Contains(keywordLower, related) || strings.Contains(related, keywordLower) {
			return true
		}
	}
	return false
}

// prioritizeMissing orders missing required skills by how often the same
// lower-cased string recurs across all three JD categories; recurrence
// across categories signals importance. Equal counts keep input order.
func prioritizeMissing(missingRequired []string, keywords types.KeywordSet) []string {
	if len(missingRequired) == 0 {
		return nil
	}
	frequency := make(map[string]int)
	for _, keyword := range keywords.All() {
		frequency[strings.ToLower(keyword)]++
	}
	prioritized := append([]string(nil), missingRequired...)
	sort.SliceStable(prioritized, func(i, j int) bool {
		return frequency[strings.ToLower(prioritized[i])] > frequency[strings.ToLower(prioritized[j])]
	})
	return prioritized
}

func firstN(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
