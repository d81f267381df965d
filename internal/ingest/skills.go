package ingest

import (
	"sort"
	"strings"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/matching"
)

// skillSimilarityThreshold is the fuzzy-ratio floor at which two skill
// spellings collapse into one.
const skillSimilarityThreshold = 0.85

// canonicalKeys holds the skill-canonical map keys ordered longest first so
// the substring fallback always prefers the most specific entry, whatever
// the map iteration order.
var canonicalKeys = func() []string {
	keys := make([]string, 0, len(dictionary.SkillCanonical))
	for key := range dictionary.SkillCanonical {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// NormalizeSkillName folds a skill spelling onto its canonical display form.
// Unknown skills come back trimmed but otherwise untouched.
func NormalizeSkillName(skill string) string {
	trimmed := strings.TrimSpace(skill)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)

	if canonical, ok := dictionary.SkillCanonical[lower]; ok {
		return canonical
	}
	for _, key := range canonicalKeys {
		if strings.Contains(lower, key) || strings.Contains(key, lower) {
			return dictionary.SkillCanonical[key]
		}
	}
	return trimmed
}

// SimilarSkills reports whether two skill spellings name the same skill:
// equal, one containing the other, sharing a canonical form, or within the
// fuzzy-ratio threshold.
func SimilarSkills(a, b string) bool {
	s1 := strings.ToLower(strings.TrimSpace(a))
	s2 := strings.ToLower(strings.TrimSpace(b))
	if s1 == "" || s2 == "" {
		return false
	}
	if s1 == s2 {
		return true
	}

	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		// Core skill names absorb their qualified variants outright:
		// "java" and "java expertise" are one skill at any length ratio.
		if hasCoreSkill(s1) || hasCoreSkill(s2) {
			return true
		}
		shorter, longer := len(s1), len(s2)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		if float64(shorter)/float64(longer) >= 0.5 {
			return true
		}
	}

	if strings.EqualFold(NormalizeSkillName(a), NormalizeSkillName(b)) {
		return true
	}

	return matching.Ratio(s1, s2) >= skillSimilarityThreshold
}

func hasCoreSkill(s string) bool {
	for _, core := range dictionary.CoreSkills {
		if strings.Contains(s, core) {
			return true
		}
	}
	return false
}

// DeduplicateSkills collapses duplicate and near-duplicate skills, keeping
// the first spelling of each group unless a preferred spelling (typically
// the JD's own terminology) covers the group.
func DeduplicateSkills(skills, preferred []string) []string {
	if len(skills) == 0 {
		return nil
	}

	preferredByKey := make(map[string]string, len(preferred)*2)
	for _, p := range preferred {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		preferredByKey[strings.ToLower(trimmed)] = trimmed
		preferredByKey[strings.ToLower(NormalizeSkillName(trimmed))] = trimmed
	}

	type group struct {
		normalized string
		members    []string
	}
	var groups []group
	for _, skill := range skills {
		trimmed := strings.TrimSpace(skill)
		if trimmed == "" {
			continue
		}
		normalized := NormalizeSkillName(trimmed)

		merged := false
		for i := range groups {
			if SimilarSkills(normalized, groups[i].normalized) {
				groups[i].members = append(groups[i].members, trimmed)
				merged = true
				break
			}
		}
		if !merged {
			groups = append(groups, group{normalized: normalized, members: []string{trimmed}})
		}
	}

	result := make([]string, 0, len(groups))
	for _, g := range groups {
		result = append(result, representative(g.members, preferredByKey))
	}
	return result
}

// representative picks the spelling a group surfaces as: the first member
// the preferred map covers, otherwise the first member seen.
func representative(members []string, preferredByKey map[string]string) string {
	for _, member := range members {
		if p, ok := preferredByKey[strings.ToLower(member)]; ok {
			return p
		}
		if p, ok := preferredByKey[strings.ToLower(NormalizeSkillName(member))]; ok {
			return p
		}
	}
	return members[0]
}

// MergeSkills concatenates skill lists and deduplicates the result,
// preferring JD terminology where it covers a group.
func MergeSkills(preferred []string, lists ...[]string) []string {
	var all []string
	for _, list := range lists {
		all = append(all, list...)
	}
	return DeduplicateSkills(all, preferred)
}
