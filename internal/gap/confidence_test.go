package gap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/ats-engine/internal/types"
)

func TestGroupConfidence_Buckets(t *testing.T) {
	keywords := types.KeywordSet{
		Required: []string{"Java", "Spring Boot", "Erlang"},
	}

	conf := GroupConfidence(keywords, "Java developer with boot camp experience")

	assert.Equal(t, []string{"Java"}, conf.High.Required, "matcher hit is high confidence")
	assert.Equal(t, []string{"Spring Boot"}, conf.Medium.Required, "partial token overlap is medium")
	assert.Equal(t, []string{"Erlang"}, conf.Low.Required, "no overlap is low")
}

func TestGroupConfidence_EveryKeywordLandsInExactlyOneBucket(t *testing.T) {
	keywords := types.KeywordSet{
		Required: []string{"Java", "Kafka"},
		Optional: []string{"Spring Boot", "Redis"},
		Tools:    []string{"Git"},
	}

	conf := GroupConfidence(keywords, "Java services with spring configs in Git")

	for _, cat := range types.Categories {
		total := len(keywords.Get(cat))
		got := len(conf.High.Get(cat)) + len(conf.Medium.Get(cat)) + len(conf.Low.Get(cat))
		assert.Equal(t, total, got, "category %s", cat)
	}
}

func TestGroupConfidence_EmptySet(t *testing.T) {
	conf := GroupConfidence(types.KeywordSet{}, "any text")

	assert.True(t, conf.High.IsEmpty())
	assert.True(t, conf.Medium.IsEmpty())
	assert.True(t, conf.Low.IsEmpty())
}
