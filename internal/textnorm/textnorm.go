// Package textnorm normalizes free text and keyword phrases into comparable
// token form. All matching, scoring, and role detection run on its output,
// so the rules here are the single source of truth for what counts as "the
// same word".
package textnorm

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// dottedSuffix folds framework spellings like "react.js", "asp.net" and
// "django.py" into their joined forms so the dot variants tokenize
// identically ("react.js" and "reactjs" must be the same token).
var dottedSuffix = regexp.MustCompile(`([a-z]+)\.(js|net|py)\b`)

// Normalize lowercases text, folds dotted tech suffixes, replaces every
// rune outside [a-z0-9+#.] with a space, and collapses whitespace. It is
// the single-string form of Fields.
func Normalize(text string) string {
	return strings.Join(Fields(text), " ")
}

// isTokenRune keeps + # . as word characters so "c++", "c#" and "node.js"
// survive tokenization.
func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.'
}

// Fields tokenizes text into ordered normalized tokens. Empty and
// whitespace-only input yields an empty slice, never an error.
func Fields(text string) []string {
	text = strings.ToLower(text)
	text = dottedSuffix.ReplaceAllString(text, "$1$2")

	var tokens []string
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if w != "" {
			tokens = append(tokens, w)
		}
	}
	for _, r := range text {
		if isTokenRune(r) {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// TokenSet is a set of normalized tokens derived from one text body.
// Ephemeral and never mutated after construction.
type TokenSet map[string]bool

// Tokenize builds the token set for a text body.
func Tokenize(text string) TokenSet {
	set := make(TokenSet)
	for _, tok := range Fields(text) {
		set[tok] = true
	}
	return set
}

// Has reports whether a single token is present.
func (s TokenSet) Has(token string) bool {
	return s[token]
}

// HasAll reports whether every token is present. An empty token list is
// vacuously false: a keyword that normalizes to nothing matches nothing.
func (s TokenSet) HasAll(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if !s[t] {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one of the tokens is present.
func (s TokenSet) HasAny(tokens []string) bool {
	for _, t := range tokens {
		if s[t] {
			return true
		}
	}
	return false
}

// Sorted returns the tokens in lexical order. Callers that iterate a token
// set to produce output must go through here so results stay deterministic.
func (s TokenSet) Sorted() []string {
	tokens := make([]string, 0, len(s))
	for t := range s {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}

// SplitSentences splits text on periods and newlines, trimming whitespace
// and dropping empty fragments. Used to pull evidence sentences out of
// resume text.
func SplitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '\n'
	})
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}
