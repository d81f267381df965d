package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"java", "Java"},
		{"Java/J2EE", "Java"},
		{"RESTful APIs", "REST"},
		{"dsa", "Data structures and algorithms"},
		{"technical documentation", "Documentation"},
		{"advanced graphql federation", "GraphQL"},
		{"Kafka", "Kafka"},
		{"  Kubernetes  ", "Kubernetes"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSkillName(tt.in))
		})
	}
}

func TestSimilarSkills(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "Java", "java", true},
		{"core skill absorbs variant", "java", "Java Technologies", true},
		{"containment with close lengths", "Spring Boot", "Spring", true},
		{"shared canonical form", "RESTful", "REST API", true},
		{"typo within ratio", "postgresql", "postgressql", true},
		{"unrelated", "java", "kafka", false},
		{"empty input", "", "java", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SimilarSkills(tt.a, tt.b))
		})
	}
}

func TestDeduplicateSkills_CollapsesVariants(t *testing.T) {
	skills := []string{"Java", "java technologies", "Kafka", "J2EE"}

	deduped := DeduplicateSkills(skills, nil)

	assert.Equal(t, []string{"Java", "Kafka"}, deduped)
}

func TestDeduplicateSkills_PrefersJDTerminology(t *testing.T) {
	skills := []string{"java expertise", "Kafka"}

	deduped := DeduplicateSkills(skills, []string{"Java"})

	assert.Equal(t, []string{"Java", "Kafka"}, deduped)
}

func TestDeduplicateSkills_EmptyInput(t *testing.T) {
	assert.Nil(t, DeduplicateSkills(nil, nil))
	assert.Empty(t, DeduplicateSkills([]string{"", "  "}, nil))
}

func TestMergeSkills(t *testing.T) {
	merged := MergeSkills(nil,
		[]string{"Java", "Kafka"},
		[]string{"java", "Redis"},
	)

	assert.Equal(t, []string{"Java", "Kafka", "Redis"}, merged)
}
