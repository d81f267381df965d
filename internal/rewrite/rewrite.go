// Package rewrite runs the grounded resume rewrite pipeline. An LLM
// collaborator proposes rephrased content, and nothing it returns reaches
// the caller until the grounding validator accepts it against the original
// resume. Rejected prose is dropped and reported, never repaired.
package rewrite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/ats-engine/internal/grounding"
	"github.com/jonathan/ats-engine/internal/llm"
	"github.com/jonathan/ats-engine/internal/prompts"
	"github.com/jonathan/ats-engine/internal/types"
)

// Derived-skill confidence cutoffs for the prompt allow-list. Strong
// inferences pass through as plain keywords; weaker ones are softened so
// the collaborator cannot present them as firsthand experience.
const (
	derivedPlainConfidence   = 0.9
	derivedRelatedConfidence = 0.75
)

// maxAttempts bounds retries on malformed collaborator output.
const maxAttempts = 3

// Request carries the flattened resume view plus everything the validator
// needs to judge collaborator output.
type Request struct {
	Summary    string   `json:"summary"`
	Bullets    []string `json:"bullets"`
	Skills     []string `json:"skills"`
	ResumeText string   `json:"resume_text"`

	Keywords types.KeywordSet      `json:"keywords"`
	Inferred []types.InferredSkill `json:"inferred_skills,omitempty"`
	Baseline types.KeywordSet      `json:"baseline_keywords"`
	Approved []string              `json:"approved_skills,omitempty"`
}

// Result is the validated rewrite. Fallbacks and rejections are tagged so
// callers surface them instead of passing off degraded content as a success.
type Result struct {
	Summary string   `json:"summary"`
	Bullets []string `json:"bullets"`
	Skills  []string `json:"skills"`

	SummaryRejected bool     `json:"summary_rejected,omitempty"`
	RejectedBullets []string `json:"rejected_bullets,omitempty"`
	RejectedSkills  []string `json:"rejected_skills,omitempty"`
	UsedFallback    bool     `json:"used_fallback,omitempty"`
	FallbackReason  string   `json:"fallback_reason,omitempty"`
}

// AllowList carries explicit JD keywords separately from derived entries so
// the prompt can distinguish firsthand terms from inferred ones.
type AllowList struct {
	Explicit []string `json:"explicit"`
	Derived  []string `json:"derived"`
}

// All returns the flattened allow-list used for grounding checks.
func (a AllowList) All() []string {
	all := make([]string, 0, len(a.Explicit)+len(a.Derived))
	all = append(all, a.Explicit...)
	all = append(all, a.Derived...)
	return all
}

// BuildAllowList assembles the rewrite allow-list: every explicit JD keyword
// plus derived skills that clear the confidence cutoffs.
func BuildAllowList(keywords types.KeywordSet, inferred []types.InferredSkill) AllowList {
	list := AllowList{
		Explicit: make([]string, 0, len(keywords.All())),
		Derived:  make([]string, 0, len(inferred)),
	}
	list.Explicit = append(list.Explicit, keywords.All()...)

	for _, skill := range inferred {
		switch {
		case skill.Skill == "":
		case skill.Confidence >= derivedPlainConfidence:
			list.Derived = append(list.Derived, skill.Skill)
		case skill.Confidence >= derivedRelatedConfidence:
			list.Derived = append(list.Derived, skill.Skill+" (related experience)")
		}
	}
	return list
}

// Rewriter drives the rewrite collaborator and validates its output.
type Rewriter struct {
	client llm.Client
}

// New returns a Rewriter backed by the given LLM client.
func New(client llm.Client) *Rewriter {
	return &Rewriter{client: client}
}

// rewriteResponse is the JSON shape the collaborator is instructed to return.
type rewriteResponse struct {
	Summary string   `json:"summary"`
	Bullets []string `json:"bullets"`
	Skills  []string `json:"skills"`
}

// Rewrite rephrases the resume toward the JD keywords and validates every
// piece of the response. Collaborator failure is not an error: the original
// content comes back tagged with UsedFallback, per the pipeline's contract
// that a broken collaborator never degrades what the caller already had.
func (r *Rewriter) Rewrite(ctx context.Context, req Request) (Result, error) {
	allowed := BuildAllowList(req.Keywords, req.Inferred)
	prompt := buildPrompt(req.ResumeText, allowed)

	proposal, err := r.propose(ctx, prompt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return fallback(req, err), nil
	}

	return validate(req, proposal, allowed), nil
}

// propose calls the collaborator until it produces parseable JSON or the
// attempt budget runs out.
func (r *Rewriter) propose(ctx context.Context, prompt string) (rewriteResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return rewriteResponse{}, err
		}

		raw, err := r.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
		if err != nil {
			lastErr = err
			continue
		}

		text := llm.RepairJSON(llm.CleanJSONBlock(raw))
		var resp rewriteResponse
		if err := json.Unmarshal([]byte(text), &resp); err != nil {
			lastErr = fmt.Errorf("rewrite response is not valid JSON: %w", err)
			continue
		}
		return resp, nil
	}
	return rewriteResponse{}, lastErr
}

// buildPrompt renders the rewrite template with the allow-list and resume.
func buildPrompt(resume string, allowed AllowList) string {
	keywordsJSON, _ := json.MarshalIndent(allowed, "", "  ")
	template := prompts.MustGet("rewrite.json", "rewrite-resume")
	return prompts.Format(template, map[string]string{
		"AllowedKeywords": string(keywordsJSON),
		"Resume":          resume,
	})
}

// fallback returns the caller's original content untouched, tagged so the
// failure stays visible.
func fallback(req Request, cause error) Result {
	return Result{
		Summary:        req.Summary,
		Bullets:        append([]string(nil), req.Bullets...),
		Skills:         append([]string(nil), req.Skills...),
		UsedFallback:   true,
		FallbackReason: cause.Error(),
	}
}

// validate grounds the summary and each bullet against the original resume
// and holds skills to strict list membership.
func validate(req Request, proposal rewriteResponse, allowed AllowList) Result {
	var result Result

	// Baseline keywords already matched in the original join the prose
	// allow-list; they cannot introduce anything new by definition.
	proseAllowed := append(allowed.All(), req.Baseline.All()...)

	summary := strings.TrimSpace(proposal.Summary)
	switch {
	case summary == "":
		result.Summary = ""
	case grounding.IsGrounded(summary, req.ResumeText, proseAllowed, grounding.DefaultMinSimilarity):
		result.Summary = summary
	default:
		result.Summary = ""
		result.SummaryRejected = true
	}

	for _, bullet := range proposal.Bullets {
		trimmed := strings.TrimSpace(bullet)
		if trimmed == "" {
			continue
		}
		if grounding.IsGrounded(trimmed, req.ResumeText, proseAllowed, grounding.DefaultMinSimilarity) {
			result.Bullets = append(result.Bullets, trimmed)
		} else {
			result.RejectedBullets = append(result.RejectedBullets, trimmed)
		}
	}

	result.Skills, result.RejectedSkills = validateSkills(req, proposal.Skills)
	return result
}

// validateSkills enforces strict membership for the skills section: a
// proposed skill survives only when the original skill list, the baseline
// matches, or the caller's approved list already carries it. Word overlap
// is not enough here. Approved skills are appended even when the
// collaborator dropped them.
func validateSkills(req Request, proposed []string) (kept, rejected []string) {
	membership := make(map[string]bool, len(req.Skills)+len(req.Approved))
	for _, s := range req.Skills {
		if key := strings.ToLower(strings.TrimSpace(s)); key != "" {
			membership[key] = true
		}
	}
	for _, s := range req.Baseline.All() {
		if key := strings.ToLower(strings.TrimSpace(s)); key != "" {
			membership[key] = true
		}
	}
	for _, s := range req.Approved {
		if key := strings.ToLower(strings.TrimSpace(s)); key != "" {
			membership[key] = true
		}
	}

	keptSeen := make(map[string]bool, len(proposed))
	rejectedSeen := make(map[string]bool)
	for _, skill := range proposed {
		trimmed := strings.TrimSpace(skill)
		if trimmed == "" {
			continue
		}
		if membership[strings.ToLower(trimmed)] {
			if !keptSeen[trimmed] {
				keptSeen[trimmed] = true
				kept = append(kept, trimmed)
			}
		} else if !rejectedSeen[trimmed] {
			rejectedSeen[trimmed] = true
			rejected = append(rejected, trimmed)
		}
	}

	for _, approved := range req.Approved {
		trimmed := strings.TrimSpace(approved)
		if trimmed == "" {
			continue
		}
		present := false
		for _, existing := range kept {
			if strings.EqualFold(existing, trimmed) {
				present = true
				break
			}
		}
		if !present {
			kept = append(kept, trimmed)
		}
	}

	return kept, rejected
}
