package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_LowercasesAndStripsPunctuation(t *testing.T) {
	got := Normalize("Senior Java Developer (Backend), 5+ years!")
	assert.Equal(t, "senior java developer backend 5+ years", got)
}

func TestNormalize_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \t\n  "))
	assert.Empty(t, Fields("   \t\n  "))
	assert.Empty(t, Tokenize(""))
}

func TestFields_PreservesTechSuffixes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "c++ and c# survive",
			text: "Worked with C++ and C#",
			want: []string{"worked", "with", "c++", "and", "c#"},
		},
		{
			name: "node.js folds to nodejs",
			text: "Node.js services",
			want: []string{"nodejs", "services"},
		},
		{
			name: "react.js folds to reactjs",
			text: "Built React.js frontends",
			want: []string{"built", "reactjs", "frontends"},
		},
		{
			name: "asp.net folds to aspnet",
			text: "ASP.NET Core",
			want: []string{"aspnet", "core"},
		},
		{
			name: "sentence period is not token content",
			text: "Java developer using Spring Boot.",
			want: []string{"java", "developer", "using", "spring", "boot"},
		},
		{
			name: "slash separates ci/cd",
			text: "CI/CD pipelines",
			want: []string{"ci", "cd", "pipelines"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fields(tt.text))
		})
	}
}

func TestTokenize_SetSemantics(t *testing.T) {
	set := Tokenize("Java developer. Java services on AWS.")

	assert.True(t, set.Has("java"))
	assert.True(t, set.Has("aws"))
	assert.False(t, set.Has("kafka"))
	assert.True(t, set.HasAll([]string{"java", "developer"}))
	assert.False(t, set.HasAll([]string{"java", "kafka"}))
	assert.True(t, set.HasAny([]string{"kafka", "aws"}))
	assert.False(t, set.HasAny([]string{"kafka", "rust"}))
}

func TestTokenSet_HasAllEmptyListIsFalse(t *testing.T) {
	set := Tokenize("anything at all")
	assert.False(t, set.HasAll(nil), "a keyword that normalizes to nothing matches nothing")
}

func TestTokenSet_SortedIsDeterministic(t *testing.T) {
	set := Tokenize("zeta alpha mu beta")

	first := set.Sorted()
	require.Equal(t, []string{"alpha", "beta", "mu", "zeta"}, first)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, set.Sorted())
	}
}

func TestSplitSentences(t *testing.T) {
	text := "Built REST APIs using Spring Boot.\nImplemented authentication and authorization.\nDeployed services on AWS."

	got := SplitSentences(text)

	require.Len(t, got, 3)
	assert.Equal(t, "Built REST APIs using Spring Boot", got[0])
	assert.Equal(t, "Implemented authentication and authorization", got[1])
	assert.Equal(t, "Deployed services on AWS", got[2])
}

func TestSplitSentences_EmptyFragmentsDropped(t *testing.T) {
	assert.Empty(t, SplitSentences("...\n\n"))
	assert.Equal(t, []string{"one", "two"}, SplitSentences("one..two"))
}
