package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-engine/internal/llm"
	"github.com/jonathan/ats-engine/internal/types"
)

// MockLLMClient implements llm.Client for testing. Calls arrive from
// concurrent workers, so the counter is mutex-guarded.
type MockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)

	mu    sync.Mutex
	calls int
}

func (m *MockLLMClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "{}", nil
}

func (m *MockLLMClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string { return "mock-model" }

func (m *MockLLMClient) Close() error { return nil }

const engineerResume = `Senior engineer who built Spring Boot microservices in Java and tuned PostgreSQL storage.
Added Kafka consumers for event streams and automated Docker builds.
Skills: Java, Spring Boot, PostgreSQL, Kafka, Docker.`

// Three postings with very different overlap against engineerResume: a
// strong backend match, a partial streaming match, and a Python stack the
// resume never mentions.
const (
	backendJD   = "Backend opening. We need Java and Spring Boot microservices experience plus Docker."
	streamingJD = "Java and Kafka streaming platform with Terraform provisioning."
	pythonJD    = "Python platform team using Django and Ruby services with Grafana dashboards."
)

const (
	backendAnalysis   = `{"role": "Backend Engineer", "seniority": "senior", "required_skills": ["Java", "Spring Boot"], "optional_skills": [], "tools": ["Docker"], "responsibilities": ["Design payment services"]}`
	streamingAnalysis = `{"role": "Data Platform Engineer", "seniority": "senior", "required_skills": ["Java", "Kafka", "Terraform"], "optional_skills": [], "tools": []}`
	pythonAnalysis    = `{"role": "Platform Engineer", "seniority": "mid", "required_skills": ["Python", "Django", "Ruby"], "optional_skills": [], "tools": ["Grafana"]}`
)

// routeByPosting maps each posting's text back to its canned analysis; the
// extraction prompt embeds the posting verbatim.
func routeByPosting(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	switch {
	case strings.Contains(prompt, "Spring Boot microservices experience"):
		return backendAnalysis, nil
	case strings.Contains(prompt, "Kafka streaming platform"):
		return streamingAnalysis, nil
	case strings.Contains(prompt, "Python platform team"):
		return pythonAnalysis, nil
	}
	return "", fmt.Errorf("no canned analysis for prompt")
}

func TestProcess_StrongMatchScoresFullMarks(t *testing.T) {
	mock := &MockLLMClient{GenerateJSONFunc: routeByPosting}

	result, err := New(mock, 0).Process(context.Background(), Request{
		ResumeText: engineerResume,
		Postings: []types.JobPosting{
			{JDID: "jd-backend", Title: "Backend Java Role", Text: backendJD},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)

	entry := result.Results[0]
	assert.Equal(t, "jd-backend", entry.JDID)
	assert.Equal(t, "Backend Java Role", entry.Title)
	assert.Equal(t, "Backend Engineer", entry.Role)
	assert.Equal(t, "senior", entry.Seniority)
	assert.Equal(t, 100.0, entry.ATSScore)
	assert.Equal(t, 100.0, entry.FitScore)
	assert.Equal(t, types.SeverityLow, entry.SkillGap.Severity)
	assert.Equal(t, 100.0, entry.SkillGap.RequiredCoverage)
	assert.Equal(t, 0, entry.SkillGap.MissingRequiredCount)
	assert.Equal(t, types.KeywordCounts{RequiredMatched: 2, RequiredTotal: 2, ToolsMatched: 1, ToolsTotal: 1}, entry.Keywords)
	assert.Empty(t, entry.Recommendations)
	assert.Equal(t, 0.83, entry.RoleMatch)
	assert.Empty(t, entry.Error)

	assert.Equal(t, 1, result.Summary.Processed)
	assert.Equal(t, 0, result.Summary.Failed)
	require.NotNil(t, result.Summary.BestMatch)
	assert.Equal(t, result.Summary.BestMatch, result.Summary.WorstMatch)
}

func TestProcess_PartialMatchPaysMissingSkillPenalty(t *testing.T) {
	mock := &MockLLMClient{GenerateJSONFunc: routeByPosting}

	result, err := New(mock, 0).Process(context.Background(), Request{
		ResumeText: engineerResume,
		Postings: []types.JobPosting{
			{JDID: "jd-streaming", Title: "Streaming Platform Role", Text: streamingJD},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)

	entry := result.Results[0]
	assert.Equal(t, "Data Platform Engineer", entry.Role)
	assert.Equal(t, 66.7, entry.ATSScore)
	// 0.7*66.7 + 0.3*66.7 minus 5 for the one missing required skill.
	assert.Equal(t, 61.7, entry.FitScore)
	assert.Equal(t, types.SeverityMedium, entry.SkillGap.Severity)
	assert.Equal(t, 66.7, entry.SkillGap.RequiredCoverage)
	assert.Equal(t, 1, entry.SkillGap.MissingRequiredCount)
	assert.Equal(t, types.KeywordCounts{RequiredMatched: 2, RequiredTotal: 3, ToolsMatched: 0, ToolsTotal: 0}, entry.Keywords)
	require.Len(t, entry.Recommendations, 1)
	assert.Equal(t, types.RecommendationCritical, entry.Recommendations[0].Type)
	assert.Equal(t, []string{"terraform"}, entry.Recommendations[0].Skills)
	assert.Equal(t, 0.67, entry.RoleMatch)
}

func TestProcess_WeakMatchFloorsAtZero(t *testing.T) {
	mock := &MockLLMClient{GenerateJSONFunc: routeByPosting}

	result, err := New(mock, 0).Process(context.Background(), Request{
		ResumeText: engineerResume,
		Postings: []types.JobPosting{
			{JDID: "jd-python", Title: "Django Platform Role", Text: pythonJD},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)

	entry := result.Results[0]
	assert.Equal(t, 0.0, entry.ATSScore)
	assert.Equal(t, 0.0, entry.FitScore)
	assert.Equal(t, types.SeverityCritical, entry.SkillGap.Severity)
	assert.Equal(t, 0.0, entry.SkillGap.RequiredCoverage)
	assert.Equal(t, 3, entry.SkillGap.MissingRequiredCount)
	assert.Equal(t, types.KeywordCounts{RequiredMatched: 0, RequiredTotal: 3, ToolsMatched: 0, ToolsTotal: 1}, entry.Keywords)

	require.Len(t, entry.Recommendations, 3)
	assert.Equal(t, types.RecommendationCritical, entry.Recommendations[0].Type)
	assert.Equal(t, types.RecommendationWarning, entry.Recommendations[1].Type)
	assert.Equal(t, types.RecommendationInfo, entry.Recommendations[2].Type)
}

func TestProcess_RanksPostingsByFitScore(t *testing.T) {
	mock := &MockLLMClient{GenerateJSONFunc: routeByPosting}

	result, err := New(mock, 0).Process(context.Background(), Request{
		ResumeText: engineerResume,
		ResumeID:   "resume-7",
		Postings: []types.JobPosting{
			{JDID: "jd-python", Title: "Django Platform Role", Text: pythonJD},
			{JDID: "jd-backend", Title: "Backend Java Role", Text: backendJD},
			{JDID: "jd-streaming", Title: "Streaming Platform Role", Text: streamingJD},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Results, 3)
	assert.Equal(t, "jd-backend", result.Results[0].JDID)
	assert.Equal(t, "jd-streaming", result.Results[1].JDID)
	assert.Equal(t, "jd-python", result.Results[2].JDID)

	assert.Equal(t, 3, result.Summary.TotalJDs)
	assert.Equal(t, 3, result.Summary.Processed)
	assert.Equal(t, 0, result.Summary.Failed)
	require.InDelta(t, (100.0+66.7+0.0)/3.0, result.Summary.AverageScore, 1e-9)

	require.NotNil(t, result.Summary.BestMatch)
	assert.Equal(t, "jd-backend", result.Summary.BestMatch.JDID)
	assert.Equal(t, "Backend Java Role", result.Summary.BestMatch.Title)
	assert.Equal(t, 100.0, result.Summary.BestMatch.Score)
	assert.Equal(t, 100.0, result.Summary.BestMatch.FitScore)

	require.NotNil(t, result.Summary.WorstMatch)
	assert.Equal(t, "jd-python", result.Summary.WorstMatch.JDID)
	assert.Equal(t, 0.0, result.Summary.WorstMatch.Score)

	assert.Equal(t, "resume-7", result.ResumeID)
	assert.Equal(t, 3, mock.CallCount())
}

func TestProcess_EmptyPostingSkippedWithoutAnalysis(t *testing.T) {
	mock := &MockLLMClient{GenerateJSONFunc: routeByPosting}

	result, err := New(mock, 0).Process(context.Background(), Request{
		ResumeText: engineerResume,
		Postings: []types.JobPosting{
			{JDID: "jd-backend", Title: "Backend Java Role", Text: backendJD},
			{JDID: "jd-empty", Title: "Void Role", Text: "  \n\t  "},
			{JDID: "jd-streaming", Title: "Streaming Platform Role", Text: streamingJD},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Summary.TotalJDs)
	assert.Equal(t, 2, result.Summary.Processed)
	assert.Equal(t, 1, result.Summary.Failed)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "jd-backend", result.Results[0].JDID)
	assert.Equal(t, "jd-streaming", result.Results[1].JDID)
	assert.Equal(t, 2, mock.CallCount(), "empty posting must never reach the collaborator")
}

func TestProcess_PipelineFailureBecomesEntryNotBatchError(t *testing.T) {
	mock := &MockLLMClient{
		GenerateJSONFunc: func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
			if strings.Contains(prompt, "mystery gig") {
				return "total gibberish", nil
			}
			return routeByPosting(ctx, prompt, tier)
		},
	}

	result, err := New(mock, 0).Process(context.Background(), Request{
		ResumeText: engineerResume,
		Postings: []types.JobPosting{
			{JDID: "jd-backend", Title: "Backend Java Role", Text: backendJD},
			{JDID: "jd-broken", Title: "Broken Role", Text: "An utterly mystery gig with nothing to parse here."},
		},
	})
	require.NoError(t, err, "a failing posting must not abort the batch")

	assert.Equal(t, 1, result.Summary.Processed)
	assert.Equal(t, 1, result.Summary.Failed)

	require.Len(t, result.Results, 2)
	assert.Equal(t, "jd-backend", result.Results[0].JDID)

	broken := result.Results[1]
	assert.Equal(t, "jd-broken", broken.JDID)
	assert.Equal(t, "Broken Role", broken.Title)
	assert.Contains(t, broken.Error, "not valid JSON")
	assert.Equal(t, 0.0, broken.FitScore)

	require.NotNil(t, result.Summary.BestMatch)
	assert.Equal(t, "jd-backend", result.Summary.BestMatch.JDID)
	assert.Equal(t, "jd-backend", result.Summary.WorstMatch.JDID)
	assert.Equal(t, 4, mock.CallCount(), "one call for the good posting, three retries for the broken one")
}

func TestProcess_CancelledContextDropsWholeBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mock := &MockLLMClient{
		GenerateJSONFunc: func(ctx context.Context, _ string, _ llm.ModelTier) (string, error) {
			cancel()
			return "", ctx.Err()
		},
	}

	result, err := New(mock, 2).Process(ctx, Request{
		ResumeText: engineerResume,
		Postings: []types.JobPosting{
			{JDID: "jd-backend", Text: backendJD},
			{JDID: "jd-streaming", Text: streamingJD},
		},
	})
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Summary.TotalJDs, "no partial aggregate after cancellation")
	assert.Empty(t, result.Results)
}

func TestProcess_HonorsConcurrencyLimit(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	mock := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return backendAnalysis, nil
		},
	}

	result, err := New(mock, 1).Process(context.Background(), Request{
		ResumeText: engineerResume,
		Postings: []types.JobPosting{
			{JDID: "a", Text: backendJD},
			{JDID: "b", Text: backendJD},
			{JDID: "c", Text: backendJD},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Summary.Processed)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, peak, "analysis calls must not overlap with a limit of 1")
}

func TestProcess_DefaultsPostingIdentity(t *testing.T) {
	mock := &MockLLMClient{GenerateJSONFunc: routeByPosting}

	result, err := New(mock, 0).Process(context.Background(), Request{
		ResumeText: engineerResume,
		Postings:   []types.JobPosting{{Text: backendJD}},
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "jd_0", result.Results[0].JDID)
	assert.Equal(t, "Unknown Position", result.Results[0].Title)
}

func TestNew_ConcurrencyFallsBackToDefault(t *testing.T) {
	mock := &MockLLMClient{}
	assert.Equal(t, DefaultConcurrency, New(mock, 0).concurrency)
	assert.Equal(t, DefaultConcurrency, New(mock, -4).concurrency)
	assert.Equal(t, 3, New(mock, 3).concurrency)
}

func TestFitScore_BlendsScoreAndCoverage(t *testing.T) {
	score := types.ScoreResult{Score: 80}
	report := types.SkillGapReport{
		Coverage: map[types.Category]float64{types.CategoryRequired: 100},
	}
	assert.Equal(t, 86.0, FitScore(score, report))
}

func TestFitScore_PenalizesMissingRequiredSkills(t *testing.T) {
	score := types.ScoreResult{Score: 50}
	report := types.SkillGapReport{
		Coverage: map[types.Category]float64{types.CategoryRequired: 50},
		Missing:  types.KeywordSet{Required: []string{"go", "rust"}},
	}
	// 35 + 15, minus 5 per missing skill.
	assert.Equal(t, 40.0, FitScore(score, report))
}

func TestFitScore_PenaltyCapsAtTwenty(t *testing.T) {
	score := types.ScoreResult{Score: 100}
	report := types.SkillGapReport{
		Coverage: map[types.Category]float64{types.CategoryRequired: 100},
		Missing:  types.KeywordSet{Required: []string{"a", "b", "c", "d", "e", "f"}},
	}
	assert.Equal(t, 80.0, FitScore(score, report))
}

func TestFitScore_NeverGoesNegative(t *testing.T) {
	score := types.ScoreResult{Score: 10}
	report := types.SkillGapReport{
		Coverage: map[types.Category]float64{types.CategoryRequired: 0},
		Missing:  types.KeywordSet{Required: []string{"a", "b", "c", "d"}},
	}
	assert.Equal(t, 0.0, FitScore(score, report))
}

func TestFitScore_NoPenaltyWithoutMissingSkills(t *testing.T) {
	score := types.ScoreResult{Score: 100}
	assert.Equal(t, 70.0, FitScore(score, types.SkillGapReport{}))
}
