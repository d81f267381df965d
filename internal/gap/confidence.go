package gap

import (
	"github.com/jonathan/ats-engine/internal/matching"
	"github.com/jonathan/ats-engine/internal/textnorm"
	"github.com/jonathan/ats-engine/internal/types"
)

// GroupConfidence buckets every JD keyword by how confidently the resume
// evidences it: high when the matcher finds it, medium when only some of
// its tokens appear, low when nothing overlaps.
func GroupConfidence(keywords types.KeywordSet, resumeText string) types.KeywordConfidence {
	tokens := textnorm.Tokenize(resumeText)

	var conf types.KeywordConfidence
	for _, cat := range types.Categories {
		var high, medium, low []string
		for _, keyword := range keywords.Get(cat) {
			switch {
			case matching.Match(keyword, tokens).Tier.Matched():
				high = append(high, keyword)
			case tokens.HasAny(textnorm.Fields(keyword)):
				medium = append(medium, keyword)
			default:
				low = append(low, keyword)
			}
		}
		conf.High.Set(cat, high)
		conf.Medium.Set(cat, medium)
		conf.Low.Set(cat, low)
	}
	return conf
}
