// Package grounding decides whether generated text is supported by a source
// document. It is the safety boundary between model output and anything the
// engine keeps: text that cannot be traced back to the source is rejected,
// never repaired.
package grounding

import (
	"strings"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/textnorm"
	"github.com/jonathan/ats-engine/internal/types"
)

// DefaultMinSimilarity is the token-overlap fraction prose must reach when
// no exact substring match exists.
const DefaultMinSimilarity = 0.7

// techLexicon holds every term subject to the hard-reject rule.
var techLexicon = append(
	append([]string{}, dictionary.TechnologyTerms...),
	dictionary.PracticeTerms...,
)

// IsGrounded reports whether candidate text is supported by the source
// document. Acceptance order: exact substring, then token-overlap fraction
// against minSimilarity, then allow-listed keywords that the source itself
// contains. One rule overrides all three: a recognized technology term in
// the candidate that the source never mentions rejects unconditionally,
// because specificity beats statistics.
func IsGrounded(candidate, source string, allowedKeywords []string, minSimilarity float64) bool {
	candidateLower := strings.ToLower(strings.TrimSpace(candidate))
	sourceLower := strings.ToLower(source)

	candidateTokens := textnorm.Tokenize(candidate)
	sourceTokens := textnorm.Tokenize(source)

	if introducesNewTech(candidateTokens, sourceTokens) {
		return false
	}

	if strings.Contains(sourceLower, candidateLower) {
		return true
	}

	if tokenOverlap(candidateTokens, sourceTokens) >= minSimilarity {
		return true
	}

	for _, keyword := range allowedKeywords {
		kw := strings.ToLower(keyword)
		if kw == "" {
			continue
		}
		// The keyword must also appear in the source, so the allow-list
		// cannot launder new terms into the output.
		if strings.Contains(candidateLower, kw) && strings.Contains(sourceLower, kw) {
			return true
		}
	}

	return false
}

// Check is IsGrounded with its working explained: the same acceptance rules,
// returning the overlap ratio and which rule decided.
func Check(candidate, source string, allowedKeywords []string, minSimilarity float64) types.GroundingVerdict {
	if minSimilarity <= 0 {
		minSimilarity = DefaultMinSimilarity
	}

	candidateLower := strings.ToLower(strings.TrimSpace(candidate))
	sourceLower := strings.ToLower(source)

	candidateTokens := textnorm.Tokenize(candidate)
	sourceTokens := textnorm.Tokenize(source)
	ratio := tokenOverlap(candidateTokens, sourceTokens)

	if introducesNewTech(candidateTokens, sourceTokens) {
		return types.GroundingVerdict{Ratio: ratio, Reason: "introduces technology absent from source"}
	}
	if strings.Contains(sourceLower, candidateLower) {
		return types.GroundingVerdict{Grounded: true, Ratio: ratio, Reason: "exact substring of source"}
	}
	if ratio >= minSimilarity {
		return types.GroundingVerdict{Grounded: true, Ratio: ratio, Reason: "token overlap above threshold"}
	}
	for _, keyword := range allowedKeywords {
		kw := strings.ToLower(keyword)
		if kw == "" {
			continue
		}
		if strings.Contains(candidateLower, kw) && strings.Contains(sourceLower, kw) {
			return types.GroundingVerdict{Grounded: true, Ratio: ratio, Reason: "allow-listed keyword present in source"}
		}
	}
	return types.GroundingVerdict{Ratio: ratio, Reason: "token overlap below threshold"}
}

// introducesNewTech reports whether the candidate names a technology or
// practice term the source never does. Comparison is token-level on both
// sides: "javascript" in the source does not vouch for "java".
func introducesNewTech(candidate, source textnorm.TokenSet) bool {
	for _, term := range techLexicon {
		parts := textnorm.Fields(term)
		if candidate.HasAll(parts) && !source.HasAll(parts) {
			return true
		}
	}
	return false
}

// tokenOverlap is the fraction of the candidate's distinct tokens that also
// occur in the source.
func tokenOverlap(candidate, source textnorm.TokenSet) float64 {
	if len(candidate) == 0 {
		return 0
	}
	matched := 0
	for token := range candidate {
		if source[token] {
			matched++
		}
	}
	return float64(matched) / float64(len(candidate))
}
