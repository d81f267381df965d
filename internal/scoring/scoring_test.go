package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-engine/internal/types"
)

func TestScore_PerfectMatch(t *testing.T) {
	keywords := types.KeywordSet{Required: []string{"Java", "Spring Boot"}}

	result := Score(keywords, "Java developer using Spring Boot")

	assert.Equal(t, 100.0, result.Score)
	assert.Empty(t, result.Missing.Required)
	assert.Empty(t, result.MissingRequired)
	assert.Len(t, result.Matched.Required, 2)
	assert.Equal(t, types.RiskLow, result.Risk)
}

func TestScore_HalfMatch(t *testing.T) {
	keywords := types.KeywordSet{Required: []string{"Java", "Kafka"}}

	result := Score(keywords, "Java developer")

	assert.Equal(t, 50.0, result.Score)
	assert.Equal(t, []string{"Kafka"}, result.Missing.Required)
	assert.Equal(t, []string{"Kafka"}, result.MissingRequired)
	assert.Equal(t, types.RiskMedium, result.Risk)
	assert.Contains(t, result.Warnings, "Missing critical required skills")
}

func TestScore_MonotonicInAddedKeywords(t *testing.T) {
	keywords := types.KeywordSet{
		Required: []string{"Java", "Kafka", "Docker"},
		Optional: []string{"Terraform"},
	}

	resumes := []string{
		"backend developer",
		"Java backend developer",
		"Java backend developer with Kafka",
		"Java backend developer with Kafka and Docker",
		"Java backend developer with Kafka and Docker and Terraform",
	}

	prev := -1.0
	for _, resume := range resumes {
		score := Score(keywords, resume).Score
		assert.GreaterOrEqual(t, score, prev, "resume %q must not score below its prefix", resume)
		prev = score
	}
}

func TestScore_PartitionInvariant(t *testing.T) {
	keywords := types.KeywordSet{
		Required: []string{"Java", "Kafka", "Kubernetes"},
		Optional: []string{"Terraform", "Helm"},
		Tools:    []string{"Git", "Jira"},
	}

	result := Score(keywords, "Java developer using Git and k8s")

	for _, cat := range types.Categories {
		total := len(keywords.Get(cat))
		got := len(result.Matched.Get(cat)) + len(result.Missing.Get(cat))
		assert.Equal(t, total, got, "category %s must partition exactly", cat)
	}
}

func TestScore_EmptyCategoriesDoNotSkew(t *testing.T) {
	// Only the required column exists; optional and tools are excluded
	// from the weighted mix rather than counting as free coverage.
	keywords := types.KeywordSet{Required: []string{"Java", "Kafka"}}

	result := Score(keywords, "Java developer")

	assert.Equal(t, 50.0, result.Score)
	assert.Equal(t, 100.0, result.Coverage[types.CategoryOptional].Percent, "empty category reports vacuous coverage")
	assert.Equal(t, 100.0, result.Coverage[types.CategoryTools].Percent)
}

func TestScore_RequiredFloorCapsInflatedScores(t *testing.T) {
	// Strong optional/tools coverage cannot carry a resume that misses
	// most hard requirements past the floor.
	keywords := types.KeywordSet{
		Required: []string{"Kafka", "Rust", "Scala"},
		Optional: []string{"Python", "Django"},
		Tools:    []string{"Git"},
	}

	result := Score(keywords, "Kafka pipelines with Python and Django using Git")

	assert.Equal(t, 45.0, result.Score)
	assert.Equal(t, types.RiskHigh, result.Risk)
}

func TestScore_FloorNotAppliedWithoutRequirements(t *testing.T) {
	keywords := types.KeywordSet{Optional: []string{"Python"}}

	result := Score(keywords, "Python scripting")

	assert.Equal(t, 100.0, result.Score)
}

func TestScore_TierCredit(t *testing.T) {
	tests := []struct {
		name   string
		resume string
		want   float64
		tier   types.MatchTier
	}{
		{"alias earns full credit", "managed k8s clusters", 100.0, types.TierAlias},
		{"fuzzy earns reduced credit", "managed kuberntes clusters", 75.0, types.TierFuzzy},
	}

	keywords := types.KeywordSet{Required: []string{"Kubernetes"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(keywords, tt.resume)
			assert.Equal(t, tt.want, result.Score)
			assert.Equal(t, tt.tier, result.Tiers["Kubernetes"])
		})
	}
}

func TestScore_CompositeKeywordNotFlaggedMissing(t *testing.T) {
	// "java" is inferable from Spring evidence, so it never lands on the
	// hard missing-required list even when wholly absent.
	keywords := types.KeywordSet{Required: []string{"Java"}}

	result := Score(keywords, "Ruby on Rails development")

	assert.Equal(t, []string{"Java"}, result.Missing.Required)
	assert.Empty(t, result.MissingRequired)
	assert.Empty(t, result.Warnings)
}

func TestScore_CompositeEvidenceEarnsCredit(t *testing.T) {
	keywords := types.KeywordSet{Required: []string{"Java"}}

	result := Score(keywords, "Built Spring services")

	assert.Equal(t, 85.0, result.Score)
	assert.Equal(t, types.TierComposite, result.Tiers["Java"])
}

func TestScore_EmptyKeywordSet(t *testing.T) {
	result := Score(types.KeywordSet{}, "any resume text")

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, types.RiskHigh, result.Risk)
}

func TestScore_EmptyResume(t *testing.T) {
	keywords := types.KeywordSet{Required: []string{"Java"}}

	result := Score(keywords, "")

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, []string{"Java"}, result.Missing.Required)
}

func TestScoreWithInferred_HighConfidenceWidensEvidence(t *testing.T) {
	keywords := types.KeywordSet{Required: []string{"Relational Databases"}}
	resume := "managed data stores"

	inferred := []types.InferredSkill{
		{Skill: "Relational Databases", Confidence: 0.8},
	}
	withInference := ScoreWithInferred(keywords, resume, inferred)
	require.Equal(t, 100.0, withInference.Score)

	weak := []types.InferredSkill{
		{Skill: "Relational Databases", Confidence: 0.75},
	}
	withoutInference := ScoreWithInferred(keywords, resume, weak)
	assert.Equal(t, 0.0, withoutInference.Score, "sub-threshold inference must not contribute tokens")
}

func TestRiskFor_Bands(t *testing.T) {
	assert.Equal(t, types.RiskHigh, RiskFor(49.9))
	assert.Equal(t, types.RiskMedium, RiskFor(50))
	assert.Equal(t, types.RiskMedium, RiskFor(69.9))
	assert.Equal(t, types.RiskLow, RiskFor(70))
	assert.Equal(t, types.RiskLow, RiskFor(100))
}
