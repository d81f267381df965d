package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/ats-engine/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintJobDescription(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	jd := &types.JobDescription{
		Role:      "Backend Engineer",
		Seniority: "senior",
		Keywords: types.KeywordSet{
			Required: []string{"Java", "Spring Boot", "Kafka"},
			Tools:    []string{"Docker"},
		},
	}

	p.PrintJobDescription(jd)
	output := buf.String()

	assert.Contains(t, output, "ANALYZED JOB DESCRIPTION")
	assert.Contains(t, output, "Backend Engineer")
	assert.Contains(t, output, "senior")
	assert.Contains(t, output, "Java")
	assert.Contains(t, output, "Spring Boot")
	assert.Contains(t, output, "Docker")
}

func TestPrintJobDescription_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobDescription(nil)

	assert.Empty(t, buf.String())
}

func TestPrintJobDescription_TruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	jd := &types.JobDescription{
		Role: "Platform Engineer",
		Keywords: types.KeywordSet{
			Required: []string{"Go", "Rust", "Python", "Java", "Scala", "Elixir", "Haskell"},
		},
	}

	p.PrintJobDescription(jd)
	output := buf.String()

	assert.Contains(t, output, "... and 2 more")
	assert.NotContains(t, output, "Haskell")
}

func TestPrintRoleSignal(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	role := &types.RoleSignal{
		Role:       "backend",
		Confidence: 0.83,
		Signals:    map[string]int{"backend": 5, "infra": 1, "frontend": 0},
	}

	p.PrintRoleSignal(role)
	output := buf.String()

	assert.Contains(t, output, "DETECTED ROLE")
	assert.Contains(t, output, "backend")
	assert.Contains(t, output, "0.83")
	assert.Contains(t, output, "infra")
}

func TestPrintInferredSkills(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	skills := []types.InferredSkill{
		{Skill: "Distributed Systems", DerivedFrom: "microservices", Confidence: 0.85},
		{Skill: "CI/CD", DerivedFrom: "jenkins", Confidence: 0.85},
	}

	p.PrintInferredSkills(skills)
	output := buf.String()

	assert.Contains(t, output, "INFERRED SKILLS")
	assert.Contains(t, output, "Distributed Systems")
	assert.Contains(t, output, "0.85")
	assert.Contains(t, output, "from: microservices")
}

func TestPrintInferredSkills_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintInferredSkills(nil)

	assert.Empty(t, buf.String())
}

func TestPrintScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	score := &types.ScoreResult{
		Score: 72.5,
		Risk:  types.RiskMedium,
		Coverage: map[types.Category]types.CategoryCoverage{
			types.CategoryRequired: {Matched: 3, Total: 5, Percent: 60.0},
			types.CategoryOptional: {Matched: 1, Total: 2, Percent: 50.0},
			types.CategoryTools:    {Matched: 0, Total: 1, Percent: 0.0},
		},
		MissingRequired: []string{"Kafka", "Terraform"},
	}

	p.PrintScore(score)
	output := buf.String()

	assert.Contains(t, output, "ATS SCORE")
	assert.Contains(t, output, "72.5")
	assert.Contains(t, output, "medium")
	assert.Contains(t, output, "required_skills")
	assert.Contains(t, output, "3/5 (60.0%)")
	assert.Contains(t, output, "✗ Kafka")
}

func TestPrintGapReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &types.SkillGapReport{
		Severity:       types.SeverityHigh,
		PrioritySkills: []string{"kafka", "terraform"},
		Recommendations: []types.Recommendation{
			{
				Type:    types.RecommendationCritical,
				Message: "Add these required skills if you have experience",
				Skills:  []string{"kafka"},
				Action:  "add_skills",
			},
		},
	}

	p.PrintGapReport(report)
	output := buf.String()

	assert.Contains(t, output, "SKILL GAP")
	assert.Contains(t, output, "high")
	assert.Contains(t, output, "kafka, terraform")
	assert.Contains(t, output, "⚠ critical")
}

func TestPrintRewriteResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.RewriteResult{
		Summary:         "Backend engineer with Java depth",
		Bullets:         []string{"Built Spring Boot services", "Tuned PostgreSQL queries"},
		RejectedBullets: []string{"Invented blockchain synergy"},
	}

	p.PrintRewriteResult(result)
	output := buf.String()

	assert.Contains(t, output, "GROUNDED REWRITE")
	assert.Contains(t, output, "Kept 2 bullets, rejected 1")
	assert.Contains(t, output, "✓ Built Spring Boot services")
	assert.Contains(t, output, "✗ Invented blockchain synergy")
}

func TestPrintRewriteResult_Fallback(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.RewriteResult{UsedFallback: true}

	p.PrintRewriteResult(result)
	output := buf.String()

	assert.Contains(t, output, "original text kept")
}

func TestPrintBatchSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.BatchResult{
		Summary: types.BatchSummary{
			TotalJDs:     3,
			Processed:    2,
			Failed:       1,
			AverageScore: 71.4,
			BestMatch:    &types.MatchRef{JDID: "jd-1", Title: "Backend Engineer", Score: 88.0, FitScore: 90.2},
			WorstMatch:   &types.MatchRef{JDID: "jd-2", Title: "Data Engineer", Score: 54.8, FitScore: 49.0},
		},
		Results: []types.BatchEntry{
			{JDID: "jd-1", Title: "Backend Engineer", ATSScore: 88.0, FitScore: 90.2},
			{JDID: "jd-2", Title: "Data Engineer", ATSScore: 54.8, FitScore: 49.0},
			{JDID: "jd-3", Title: "Mystery Gig", Failed: true, Error: "parse error"},
		},
	}

	p.PrintBatchSummary(result)
	output := buf.String()

	assert.Contains(t, output, "BATCH SUMMARY")
	assert.Contains(t, output, "Processed 2/3 JDs (1 failed)")
	assert.Contains(t, output, "Average score: 71.4")
	assert.Contains(t, output, "Best:  Backend Engineer (88.0)")
	assert.Contains(t, output, "fit 90.2 / ats 88.0")
	assert.Contains(t, output, "Mystery Gig (failed)")
}

func TestPrintRiskFlags_WithFlags(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	flags := []types.RiskFlag{
		{
			Flag:     "missing_core_skills",
			Severity: types.SeverityHigh,
			Detail:   "required skills listed in the job description are absent",
		},
	}

	p.PrintRiskFlags(flags)
	output := buf.String()

	assert.Contains(t, output, "RISK FLAGS")
	assert.Contains(t, output, "missing_core_skills")
	assert.Contains(t, output, "high")
}

func TestPrintRiskFlags_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRiskFlags(nil)
	output := buf.String()

	assert.Contains(t, output, "NO RISK FLAGS")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	// A role long enough to force line truncation inside the box
	jd := &types.JobDescription{
		Role:      "Senior Staff Principal Distinguished Engineer Level 99 of Everything",
		Seniority: "senior",
	}

	p.PrintJobDescription(jd)
	output := buf.String()

	// Should contain box characters
	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.True(t, strings.Contains(output, "│"))
	assert.Contains(t, output, "...")
}
