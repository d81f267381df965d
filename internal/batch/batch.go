// Package batch scores one resume against many job descriptions
// concurrently. Each posting runs the full single-JD pipeline in isolation,
// so one slow analysis or one failed posting never stalls or aborts the
// rest; the aggregate ranks every outcome by fit score.
package batch

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-engine/internal/analyzer"
	"github.com/jonathan/ats-engine/internal/gap"
	"github.com/jonathan/ats-engine/internal/inference"
	"github.com/jonathan/ats-engine/internal/llm"
	"github.com/jonathan/ats-engine/internal/scoring"
	"github.com/jonathan/ats-engine/internal/types"
)

// DefaultConcurrency bounds the per-posting fan-out when the caller does not
// set a limit. JD analysis is the only blocking step in the pipeline, so the
// limit is effectively the number of in-flight collaborator calls.
const DefaultConcurrency = 10

// Fit-score blend. The ATS score dominates, required-skill coverage tempers
// it, and every missing required skill costs penaltyPerMissing points up to
// penaltyCap.
const (
	fitScoreWeight    = 0.7
	fitCoverageWeight = 0.3
	penaltyPerMissing = 5.0
	penaltyCap        = 20.0
)

// topRecommendations caps how many gap recommendations each entry carries.
const topRecommendations = 3

// Request is one resume to score against a list of postings. ResumeID is
// carried through to the result untouched so callers can correlate runs.
type Request struct {
	ResumeText string             `json:"resume_text"`
	ResumeID   string             `json:"resume_id,omitempty"`
	Postings   []types.JobPosting `json:"postings"`
}

// Processor fans one resume out against many job descriptions.
type Processor struct {
	analyzer    *analyzer.Analyzer
	concurrency int
}

// New returns a Processor backed by the given LLM client. A non-positive
// concurrency falls back to DefaultConcurrency.
func New(client llm.Client, concurrency int) *Processor {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Processor{
		analyzer:    analyzer.New(client),
		concurrency: concurrency,
	}
}

// Process runs the single-JD pipeline for every posting and aggregates the
// outcomes. Postings with empty text are counted as failed without entering
// the pipeline; postings whose pipeline fails become error entries rather
// than aborting the batch. Results come back sorted by fit score descending,
// so callers needing input order must re-correlate by posting id.
//
// Cancellation returns the context error and no result: a posting's
// contribution is either fully counted or fully dropped, never partial.
func (p *Processor) Process(ctx context.Context, req Request) (types.BatchResult, error) {
	entries := make([]*types.BatchEntry, len(req.Postings))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, posting := range req.Postings {
		if strings.TrimSpace(posting.Text) == "" {
			continue // slot stays empty and is counted failed during aggregation
		}
		g.Go(func() error {
			entry, err := p.processOne(gCtx, req.ResumeText, posting, i)
			if err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				entry = failedEntry(posting, i, err)
			}
			entries[i] = &entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return types.BatchResult{}, err
	}

	return aggregate(entries, len(req.Postings), req.ResumeID), nil
}

// processOne runs analyze, role detection, skill inference, role tuning,
// scoring, and gap analysis for a single posting.
func (p *Processor) processOne(ctx context.Context, resumeText string, posting types.JobPosting, index int) (types.BatchEntry, error) {
	jd, err := p.analyzer.AnalyzeJD(ctx, posting.Text)
	if err != nil {
		return types.BatchEntry{}, err
	}

	role := inference.DetectRole(posting.Text, resumeText)
	inferred := inference.Infer(resumeText, jd.Keywords.All())
	inferred = inference.TuneByRole(inferred, role.Role)

	score := scoring.ScoreWithInferred(jd.Keywords, resumeText, inferred)
	gapReport := gap.AnalyzeGap(jd.Keywords, resumeText, inferred)

	return types.BatchEntry{
		JDID:      postingID(posting, index),
		Title:     postingTitle(posting),
		Role:      jd.Role,
		Seniority: jd.Seniority,
		ATSScore:  score.Score,
		FitScore:  FitScore(score, gapReport),
		SkillGap: types.GapSummary{
			Severity:             gapReport.Severity,
			RequiredCoverage:     gapReport.Coverage[types.CategoryRequired],
			MissingRequiredCount: len(gapReport.Missing.Required),
		},
		Keywords: types.KeywordCounts{
			RequiredMatched: len(score.Matched.Required),
			RequiredTotal:   len(jd.Keywords.Required),
			ToolsMatched:    len(score.Matched.Tools),
			ToolsTotal:      len(jd.Keywords.Tools),
		},
		Recommendations: topN(gapReport.Recommendations, topRecommendations),
		RoleMatch:       role.Confidence,
	}, nil
}

// FitScore blends an ATS score with required-skill coverage into a single
// 0-100 ranking value: 70% score, 30% coverage, minus 5 points per missing
// required skill capped at 20.
func FitScore(score types.ScoreResult, gapReport types.SkillGapReport) float64 {
	fit := score.Score*fitScoreWeight + gapReport.Coverage[types.CategoryRequired]*fitCoverageWeight
	if missing := len(gapReport.Missing.Required); missing > 0 {
		penalty := math.Min(float64(missing)*penaltyPerMissing, penaltyCap)
		fit = math.Max(0, fit-penalty)
	}
	return round1(fit)
}

// aggregate folds the per-posting slots into the batch result. Only complete
// entries are counted; nil slots are postings that never produced one.
func aggregate(entries []*types.BatchEntry, total int, resumeID string) types.BatchResult {
	result := types.BatchResult{
		Summary:  types.BatchSummary{TotalJDs: total},
		Results:  make([]types.BatchEntry, 0, total),
		ResumeID: resumeID,
	}

	var best, worst *types.BatchEntry
	var sum float64
	for _, entry := range entries {
		if entry == nil {
			result.Summary.Failed++
			continue
		}
		result.Results = append(result.Results, *entry)
		if entry.Failed {
			result.Summary.Failed++
			continue
		}
		result.Summary.Processed++
		sum += entry.ATSScore
		if best == nil || entry.ATSScore > best.ATSScore {
			best = entry
		}
		if worst == nil || entry.ATSScore < worst.ATSScore {
			worst = entry
		}
	}

	if n := result.Summary.Processed; n > 0 {
		result.Summary.AverageScore = sum / float64(n)
		result.Summary.BestMatch = matchRef(best)
		result.Summary.WorstMatch = matchRef(worst)
	}

	sort.SliceStable(result.Results, func(i, j int) bool {
		return result.Results[i].FitScore > result.Results[j].FitScore
	})
	return result
}

func failedEntry(posting types.JobPosting, index int, err error) types.BatchEntry {
	return types.BatchEntry{
		JDID:   postingID(posting, index),
		Title:  postingTitle(posting),
		Error:  err.Error(),
		Failed: true,
	}
}

func postingID(posting types.JobPosting, index int) string {
	if posting.JDID != "" {
		return posting.JDID
	}
	return fmt.Sprintf("jd_%d", index)
}

func postingTitle(posting types.JobPosting) string {
	if posting.Title != "" {
		return posting.Title
	}
	return "Unknown Position"
}

func matchRef(entry *types.BatchEntry) *types.MatchRef {
	return &types.MatchRef{
		JDID:     entry.JDID,
		Title:    entry.Title,
		Score:    entry.ATSScore,
		FitScore: entry.FitScore,
	}
}

func topN(recs []types.Recommendation, n int) []types.Recommendation {
	if len(recs) <= n {
		return recs
	}
	return recs[:n]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
