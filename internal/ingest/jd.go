// Package ingest turns collaborator output and uploaded documents into the
// canonical shapes the engine runs on: one JobDescription schema regardless
// of how the analysis collaborator spells its fields, normalized keyword
// lists, deduplicated skills, and plain resume text out of PDF or DOCX.
package ingest

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/types"
)

// keyAliases maps each canonical JD field to the spellings collaborators
// actually produce. The first alias present wins.
var keyAliases = map[string][]string{
	"role":             {"role", "job_role", "position"},
	"seniority":        {"seniority", "level", "experience_level"},
	"required_skills":  {"required_skills", "requirements", "must_have_skills"},
	"optional_skills":  {"optional_skills", "nice_to_have", "preferred_skills"},
	"tools":            {"tools", "technologies", "platforms"},
	"responsibilities": {"responsibilities", "duties"},
	"ats_keywords":     {"ats_keywords", "keywords"},
}

// CanonicalizeJD resolves key-name drift in a raw JD-analysis response and
// decodes it into the canonical JobDescription shape. Core functions never
// see the raw map.
func CanonicalizeJD(raw map[string]any) (types.JobDescription, error) {
	resolved := make(map[string]any, len(keyAliases))
	for canonical, aliases := range keyAliases {
		for _, alias := range aliases {
			if value, ok := raw[alias]; ok {
				resolved[canonical] = value
				break
			}
		}
	}

	var flat struct {
		Role             string   `mapstructure:"role"`
		Seniority        string   `mapstructure:"seniority"`
		Required         []string `mapstructure:"required_skills"`
		Optional         []string `mapstructure:"optional_skills"`
		Tools            []string `mapstructure:"tools"`
		Responsibilities []string `mapstructure:"responsibilities"`
		ATSKeywords      []string `mapstructure:"ats_keywords"`
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &flat,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return types.JobDescription{}, err
	}
	if err := decoder.Decode(resolved); err != nil {
		return types.JobDescription{}, fmt.Errorf("failed to canonicalize jd analysis: %w", err)
	}

	return types.JobDescription{
		Role:      flat.Role,
		Seniority: flat.Seniority,
		Keywords: types.KeywordSet{
			Required: flat.Required,
			Optional: flat.Optional,
			Tools:    flat.Tools,
		},
		Responsibilities: flat.Responsibilities,
		ATSKeywords:      flat.ATSKeywords,
	}, nil
}

// NormalizeKeywords folds verbose JD phrasing into ATS-safe canonical forms,
// lowercases, and deduplicates each category preserving first-seen order.
func NormalizeKeywords(keywords types.KeywordSet) types.KeywordSet {
	var out types.KeywordSet
	for _, cat := range types.Categories {
		out.Set(cat, NormalizeKeywordList(keywords.Get(cat)))
	}
	return out
}

// NormalizeKeywordList applies the same folding to a flat keyword list.
func NormalizeKeywordList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if folded, ok := dictionary.JDPhraseCanonical[key]; ok {
			key = folded
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
