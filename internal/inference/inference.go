// Package inference derives implied skills from resume evidence and detects
// the target role. Both paths are pure table lookups over normalized text, so
// identical inputs always produce identical output.
package inference

import (
	"math"
	"strings"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/textnorm"
	"github.com/jonathan/ats-engine/internal/types"
)

// Infer scans resume text for inference-rule signals and returns the derived
// skills with their evidence. Skills the candidate already lists explicitly
// are skipped so the output never duplicates stated experience. The first
// signal to hit becomes the provenance of the inferred skill.
func Infer(resumeText string, explicitSkills []string) []types.InferredSkill {
	resumeLower := strings.ToLower(resumeText)

	explicit := make(map[string]bool, len(explicitSkills))
	for _, skill := range explicitSkills {
		explicit[strings.ToLower(skill)] = true
	}

	var inferred []types.InferredSkill
	for _, rule := range dictionary.InferenceRules {
		if explicit[strings.ToLower(rule.Skill)] {
			continue
		}
		for _, signal := range rule.Signals {
			if !strings.Contains(resumeLower, signal) {
				continue
			}
			inferred = append(inferred, types.InferredSkill{
				Skill:        rule.Skill,
				DerivedFrom:  signal,
				Confidence:   rule.Confidence,
				EvidenceText: evidenceSentence(resumeText, signal),
				Reason:       rule.Reason,
			})
			break
		}
	}
	return inferred
}

// evidenceSentence returns the first sentence of text containing phrase, or
// "" when the phrase spans a sentence boundary.
func evidenceSentence(text, phrase string) string {
	for _, sentence := range textnorm.SplitSentences(text) {
		if strings.Contains(strings.ToLower(sentence), phrase) {
			return sentence
		}
	}
	return ""
}

// TuneByRole re-weights inferred-skill confidence for the detected role and
// returns a new slice; the input is never mutated. Roles and skills without
// a multiplier table entry keep their base confidence.
func TuneByRole(skills []types.InferredSkill, role string) []types.InferredSkill {
	multipliers := dictionary.RoleConfidenceMultipliers[strings.ToLower(role)]

	tuned := make([]types.InferredSkill, 0, len(skills))
	for _, skill := range skills {
		multiplier, ok := multipliers[skill.Skill]
		if !ok {
			multiplier = 1.0
		}
		skill.Confidence = round2(skill.Confidence * multiplier)
		tuned = append(tuned, skill)
	}
	return tuned
}

// DetectRole classifies the target role from combined job-description and
// resume text by counting role-profile keyword hits. A multi-word profile
// keyword counts as one hit when all of its tokens are present.
func DetectRole(jdText, resumeText string) types.RoleSignal {
	tokens := textnorm.Tokenize(jdText + " " + resumeText)

	signals := make(map[string]int, len(dictionary.RoleProfiles))
	total := 0
	for _, profile := range dictionary.RoleProfiles {
		count := 0
		for _, keyword := range profile.Keywords {
			if tokens.HasAll(textnorm.Fields(keyword)) {
				count++
			}
		}
		signals[profile.Name] = count
		total += count
	}

	// Profile order breaks ties, so equal counts resolve the same way on
	// every run.
	role := dictionary.RoleProfiles[0].Name
	best := signals[role]
	for _, profile := range dictionary.RoleProfiles[1:] {
		if signals[profile.Name] > best {
			role = profile.Name
			best = signals[profile.Name]
		}
	}

	confidence := round2(float64(best) / float64(max(total, 1)))

	// Strong backend and infra evidence together reads as a platform
	// generalist rather than either specialty.
	if signals["backend"] >= dictionary.FullstackThreshold &&
		signals["infra"] >= dictionary.FullstackThreshold {
		role = "fullstack"
	}

	return types.RoleSignal{
		Role:       role,
		Confidence: confidence,
		Signals:    signals,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
