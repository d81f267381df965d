// Package matching decides whether and how a JD keyword is present in a
// resume's token set. Tiers are tried strongest-first and the first hit
// wins: a keyword never reports two tiers, and for fixed inputs the tier
// and matched tokens are identical across runs.
package matching

import (
	"math"
	"strings"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/textnorm"
	"github.com/jonathan/ats-engine/internal/types"
)

const (
	// FuzzyThreshold is the minimum similarity ratio for a fuzzy token match.
	FuzzyThreshold = 0.85

	// fuzzyTokenCoverage is the fraction of a multi-word keyword's tokens
	// that must fuzzy-match for the keyword to count as present.
	fuzzyTokenCoverage = 0.7

	// abbrevThreshold is the minimum ratio for the substring/abbreviation
	// check (e.g. "postgre" inside "postgres").
	abbrevThreshold = 0.75

	// abbrevMinLen guards the abbreviation check against tiny tokens.
	abbrevMinLen = 3
)

// Match classifies one keyword against a resume token set.
func Match(keyword string, tokens textnorm.TokenSet) types.MatchResult {
	result := types.MatchResult{Keyword: keyword, Tier: types.TierNone}

	kw := strings.ToLower(strings.TrimSpace(keyword))
	kwTokens := textnorm.Fields(kw)
	if len(kwTokens) == 0 {
		return result
	}

	// 1. Exact: every token of the keyword is present.
	if tokens.HasAll(kwTokens) {
		result.Tier = types.TierExact
		result.MatchedTokens = kwTokens
		return result
	}

	// 2. Alias: an equivalent spelling is present. A canonical keyword
	// matches through any of its variants; a variant matches through its
	// canonical form.
	if matched := matchAlias(kw, tokens); matched != nil {
		result.Tier = types.TierAlias
		result.MatchedTokens = matched
		return result
	}

	// 3. Composite: enough constituent signals of a known umbrella skill.
	if matched := matchComposite(kw, tokens); matched != nil {
		result.Tier = types.TierComposite
		result.MatchedTokens = matched
		return result
	}

	// 4. Fuzzy: typos, pluralization, spacing drift.
	if matched := matchFuzzy(kw, kwTokens, tokens); matched != nil {
		result.Tier = types.TierFuzzy
		result.MatchedTokens = matched
		return result
	}

	return result
}

// MatchAll classifies every keyword in the list, in input order.
func MatchAll(keywords []string, tokens textnorm.TokenSet) []types.MatchResult {
	results := make([]types.MatchResult, 0, len(keywords))
	for _, kw := range keywords {
		results = append(results, Match(kw, tokens))
	}
	return results
}

func matchAlias(kw string, tokens textnorm.TokenSet) []string {
	for _, variant := range dictionary.VariantsOf(kw) {
		vTokens := textnorm.Fields(variant)
		if tokens.HasAll(vTokens) {
			return vTokens
		}
	}
	if canonical := dictionary.CanonicalFor(kw); canonical != "" {
		cTokens := textnorm.Fields(canonical)
		if tokens.HasAll(cTokens) {
			return cTokens
		}
	}
	return nil
}

// matchComposite counts how many constituent signals of a composite skill
// overlap the token set. A single hit carries two-part composites (the
// strong-signal shortcut: Spring alone implies Java); larger composites
// need at least half their parts.
func matchComposite(kw string, tokens textnorm.TokenSet) []string {
	parts := dictionary.CompositeParts(kw)
	if len(parts) == 0 {
		return nil
	}

	hits := 0
	var matched []string
	for _, part := range parts {
		for _, tok := range textnorm.Fields(part) {
			if tokens.Has(tok) {
				hits++
				matched = append(matched, tok)
				break
			}
		}
	}

	if hits >= 1 && len(parts) <= 2 {
		return matched
	}
	if hits >= max(1, len(parts)/2) {
		return matched
	}
	return nil
}

func matchFuzzy(kw string, kwTokens []string, tokens textnorm.TokenSet) []string {
	sorted := tokens.Sorted()

	// Multi-word keywords count as present when most of their tokens
	// fuzzy-match something.
	if len(kwTokens) > 1 {
		var matched []string
		for _, kt := range kwTokens {
			for _, tok := range sorted {
				if Ratio(kt, tok) >= FuzzyThreshold {
					matched = append(matched, tok)
					break
				}
			}
		}
		if float64(len(matched)) >= math.Max(1, float64(len(kwTokens))*fuzzyTokenCoverage) {
			return matched
		}
	}

	// Whole-keyword similarity against each token.
	joined := strings.Join(kwTokens, " ")
	for _, tok := range sorted {
		if Ratio(joined, tok) >= FuzzyThreshold {
			return []string{tok}
		}
	}

	// Abbreviation check: one string contained in the other, close enough
	// in shape, both long enough to mean something.
	kwFlat := strings.ReplaceAll(joined, " ", "")
	if len(kwFlat) >= abbrevMinLen {
		for _, tok := range sorted {
			if len(tok) < abbrevMinLen {
				continue
			}
			if strings.Contains(kwFlat, tok) || strings.Contains(tok, kwFlat) {
				if Ratio(kwFlat, tok) >= abbrevThreshold {
					return []string{tok}
				}
			}
		}
	}

	return nil
}
