// Package dictionary holds the static lookup tables the matching engine is
// built on: keyword aliases, composite skills, inference rules, role signal
// keywords, and the adjacency table behind quick-win recommendations.
//
// Everything in this package is data. Tables are conservative and auditable:
// an entry should only exist where the industry relationship actually holds
// (Spring Boot cannot exist without Java; a REST API almost always speaks
// JSON). Matching behavior lives in the matching package.
package dictionary

import "sort"

// Aliases maps a canonical keyword to the variant spellings and
// abbreviations that count as the same skill.
var Aliases = map[string][]string{
	"spring boot":                       {"spring", "springboot", "springframework"},
	"microservices":                     {"micro-services", "micro services", "microservice"},
	"postgresql":                        {"postgres", "pg"},
	"javascript":                        {"js", "ecmascript"},
	"react":                             {"reactjs", "react.js"},
	"node.js":                           {"nodejs", "node"},
	"machine learning":                  {"ml", "machinelearning"},
	"artificial intelligence":           {"ai", "artificialintelligence"},
	"kubernetes":                        {"k8s", "kube"},
	"amazon web services":               {"aws"},
	"microsoft azure":                   {"azure"},
	"google cloud platform":             {"gcp", "google cloud"},
	"application programming interface": {"api", "apis"},
	"representational state transfer":   {"rest", "rest api"},
	"graphql":                           {"graph ql", "gql"},
	"mongodb":                           {"mongo"},
	"mysql":                             {"my sql"},
	"redis":                             {"redis cache"},
	"docker":                            {"docker container", "dockerized"},
}

// canonicalOf maps every variant back to its canonical keyword. Built once;
// when a variant appears under several canonicals the lexically smallest
// canonical wins so the mapping never depends on map iteration order.
var canonicalOf = func() map[string]string {
	rev := make(map[string]string)
	keys := make([]string, 0, len(Aliases))
	for k := range Aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, canonical := range keys {
		for _, variant := range Aliases[canonical] {
			if _, ok := rev[variant]; !ok {
				rev[variant] = canonical
			}
		}
	}
	return rev
}()

// CanonicalFor returns the canonical keyword for a variant spelling, or ""
// when the term is not a known variant.
func CanonicalFor(variant string) string {
	return canonicalOf[variant]
}

// VariantsOf returns the variant spellings of a canonical keyword, or nil.
func VariantsOf(canonical string) []string {
	return Aliases[canonical]
}

// CompositeSkills maps an umbrella skill to the constituent signals that
// imply it. Composite matching is allowed only where industry truth holds;
// these mappings are deliberately conservative.
var CompositeSkills = map[string][]string{
	"java":                            {"spring boot", "spring"},
	"json":                            {"rest api", "rest"},
	"relational databases":            {"sql", "database", "schema"},
	"cloud-based architecture design": {"distributed", "scalable", "microservices"},
	"large-scale backend systems":     {"distributed", "scalable", "microservices"},
	"documentation best practices":    {"documentation", "design docs", "hld", "lld"},
	"security best practices":         {"authentication", "authorization", "access"},
}

// CompositeParts returns the constituent signals of a composite skill, or
// nil when the keyword is not composite.
func CompositeParts(keyword string) []string {
	return CompositeSkills[keyword]
}

// IsComposite reports whether a lowercased keyword is a known composite skill.
func IsComposite(keyword string) bool {
	_, ok := CompositeSkills[keyword]
	return ok
}
