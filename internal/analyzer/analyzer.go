// Package analyzer turns raw job description text into the canonical
// JobDescription shape using an LLM collaborator. Responses are parsed
// defensively: markdown fences, conversational framing, key-name drift,
// and trailing commas are all tolerated before the engine sees the result.
package analyzer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/ats-engine/internal/ingest"
	"github.com/jonathan/ats-engine/internal/llm"
	"github.com/jonathan/ats-engine/internal/types"
)

// maxAttempts bounds retries on malformed collaborator output.
const maxAttempts = 3

// Analyzer extracts structured hiring signals from job descriptions.
type Analyzer struct {
	client llm.Client
}

// New returns an Analyzer backed by the given LLM client.
func New(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// AnalyzeJD extracts role, seniority, and categorized keywords from raw JD
// text. Keywords come back lowercased, folded onto canonical phrasing, and
// deduplicated, ready for matching and scoring.
func (a *Analyzer) AnalyzeJD(ctx context.Context, jdText string) (types.JobDescription, error) {
	cleaned := cleanJDText(jdText)
	if cleaned == "" {
		return types.JobDescription{}, &ParseError{Message: "job description text is empty"}
	}

	prompt := llm.BuildExtractionPrompt(llm.JDAnalysisSchema(), cleaned)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return types.JobDescription{}, err
		}

		response, err := a.client.GenerateJSON(ctx, prompt, llm.TierStandard)
		if err != nil {
			lastErr = &APICallError{Message: "jd analysis generation failed", Cause: err}
			continue
		}

		jd, err := ParseAnalysis(response)
		if err != nil {
			lastErr = err
			continue
		}
		return jd, nil
	}

	return types.JobDescription{}, lastErr
}

// ParseAnalysis decodes a raw JD-analysis response into the canonical shape.
// Exposed so stored or queued collaborator output can reuse the same
// defensive path as live calls.
func ParseAnalysis(response string) (types.JobDescription, error) {
	text := llm.RepairJSON(llm.CleanJSONBlock(response))

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return types.JobDescription{}, &ParseError{Message: "jd analysis is not valid JSON", Cause: err}
	}

	jd, err := ingest.CanonicalizeJD(raw)
	if err != nil {
		return types.JobDescription{}, &ParseError{Message: "jd analysis has unusable fields", Cause: err}
	}

	jd.Keywords = ingest.NormalizeKeywords(jd.Keywords)
	if jd.Role == "" && jd.Seniority == "" && jd.Keywords.IsEmpty() {
		return types.JobDescription{}, &ParseError{Message: "jd analysis carries no hiring signals"}
	}

	if len(jd.ATSKeywords) == 0 {
		jd.ATSKeywords = jd.Keywords.All()
	}
	jd.ATSKeywords = ingest.NormalizeKeywordList(jd.ATSKeywords)

	return jd, nil
}

// cleanJDText strips boilerplate whitespace from pasted postings: every
// line is trimmed and lines shorter than three characters are dropped.
func cleanJDText(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 2 {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n")
}
