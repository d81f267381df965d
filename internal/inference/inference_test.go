package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-engine/internal/types"
)

func TestInfer_DerivesJavaFromSpringBoot(t *testing.T) {
	resume := "Built payment services with Spring Boot. Deployed to production weekly."

	inferred := Infer(resume, nil)

	require.Len(t, inferred, 1)
	assert.Equal(t, "Java", inferred[0].Skill)
	assert.Equal(t, "spring boot", inferred[0].DerivedFrom)
	assert.Equal(t, 0.9, inferred[0].Confidence)
	assert.Equal(t, "Built payment services with Spring Boot", inferred[0].EvidenceText)
	assert.NotEmpty(t, inferred[0].Reason)
}

func TestInfer_SkipsExplicitSkills(t *testing.T) {
	resume := "Built payment services with Spring Boot"

	inferred := Infer(resume, []string{"java"})

	assert.Empty(t, inferred, "explicitly listed skills must not be re-derived")
}

func TestInfer_FirstSignalWins(t *testing.T) {
	// Both "deployment" and "scaling" are present; provenance follows
	// signal order within the rule.
	resume := "Owned deployment automation and scaling for the fleet"

	inferred := Infer(resume, nil)

	var cloud *types.InferredSkill
	for i := range inferred {
		if inferred[i].Skill == "Cloud Architecture" {
			cloud = &inferred[i]
		}
	}
	require.NotNil(t, cloud)
	assert.Equal(t, "deployment", cloud.DerivedFrom)
}

func TestInfer_MultipleRulesFireInTableOrder(t *testing.T) {
	resume := "Designed REST APIs on AWS. Added monitoring dashboards."

	inferred := Infer(resume, nil)

	skills := make([]string, 0, len(inferred))
	for _, s := range inferred {
		skills = append(skills, s.Skill)
	}
	assert.Equal(t, []string{"HTTP", "Cloud Architecture", "Monitoring & Observability"}, skills)
}

func TestInfer_IdempotentAcrossCalls(t *testing.T) {
	resume := "Designed REST APIs on AWS with Spring Boot. Added monitoring dashboards and CI/CD pipelines."
	explicit := []string{"java", "terraform"}

	first := Infer(resume, explicit)
	second := Infer(resume, explicit)

	assert.Equal(t, first, second, "same inputs must yield the same inferences")
}

func TestInfer_NoSignals(t *testing.T) {
	inferred := Infer("Organized the company picnic", nil)

	assert.Empty(t, inferred)
}

func TestTuneByRole_AppliesMultipliers(t *testing.T) {
	skills := []types.InferredSkill{
		{Skill: "Java", Confidence: 0.9},
		{Skill: "Distributed Systems", Confidence: 0.85},
		{Skill: "Cloud Architecture", Confidence: 0.8},
	}

	tuned := TuneByRole(skills, "infra")

	require.Len(t, tuned, 3)
	assert.Equal(t, 0.54, tuned[0].Confidence)
	assert.Equal(t, 0.72, tuned[1].Confidence)
	assert.Equal(t, 0.8, tuned[2].Confidence)
}

func TestTuneByRole_UnknownRoleKeepsBaseConfidence(t *testing.T) {
	skills := []types.InferredSkill{{Skill: "Java", Confidence: 0.9}}

	tuned := TuneByRole(skills, "data")

	assert.Equal(t, 0.9, tuned[0].Confidence)
}

func TestTuneByRole_UnknownSkillKeepsBaseConfidence(t *testing.T) {
	skills := []types.InferredSkill{{Skill: "NoSQL Databases", Confidence: 0.9}}

	tuned := TuneByRole(skills, "backend")

	assert.Equal(t, 0.9, tuned[0].Confidence)
}

func TestTuneByRole_DoesNotMutateInput(t *testing.T) {
	skills := []types.InferredSkill{{Skill: "Java", Confidence: 0.9}}

	TuneByRole(skills, "infra")

	assert.Equal(t, 0.9, skills[0].Confidence)
}

func TestDetectRole_Backend(t *testing.T) {
	resume := "Java engineer building Spring Boot REST APIs and microservices for backend platforms"

	signal := DetectRole("", resume)

	assert.Equal(t, "backend", signal.Role)
	assert.Equal(t, 1.0, signal.Confidence)
	assert.Zero(t, signal.Signals["infra"])
	assert.Zero(t, signal.Signals["frontend"])
}

func TestDetectRole_Infra(t *testing.T) {
	jd := "Looking for Kubernetes, Docker, Terraform, AWS and Helm experience"

	signal := DetectRole(jd, "")

	assert.Equal(t, "infra", signal.Role)
	assert.Equal(t, 5, signal.Signals["infra"])
}

func TestDetectRole_FullstackOverride(t *testing.T) {
	text := "java spring rest api microservices with kubernetes docker terraform aws helm"

	signal := DetectRole(text, "")

	assert.Equal(t, "fullstack", signal.Role)
	assert.Equal(t, 5, signal.Signals["backend"])
	assert.Equal(t, 5, signal.Signals["infra"])
	// Confidence reflects the raw winner before the override.
	assert.Equal(t, 0.5, signal.Confidence)
}

func TestDetectRole_TieBreaksByPriority(t *testing.T) {
	signal := DetectRole("java and docker", "")

	assert.Equal(t, "backend", signal.Role)
	assert.Equal(t, 0.5, signal.Confidence)
}

func TestDetectRole_NoSignals(t *testing.T) {
	signal := DetectRole("gardening", "cooking")

	assert.Equal(t, "backend", signal.Role)
	assert.Equal(t, 0.0, signal.Confidence)
}

func TestDetectRole_MultiTokenKeywordCountsOnce(t *testing.T) {
	signal := DetectRole("CI/CD pipelines for the platform team", "")

	assert.Equal(t, "infra", signal.Role)
	assert.Equal(t, 1, signal.Signals["infra"])
}
