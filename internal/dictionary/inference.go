package dictionary

// InferenceRule derives one skill from textual evidence. A rule fires when
// any of its signals occurs in the resume text; the first signal to hit
// becomes the provenance of the inferred skill.
type InferenceRule struct {
	Skill      string
	Signals    []string
	Confidence float64
	Reason     string
}

// InferenceRules is the ordered rule table for evidence-gated skill
// inference. Order is part of the contract: output follows table order.
var InferenceRules = []InferenceRule{
	{
		Skill:      "Java",
		Signals:    []string{"spring boot", "spring framework"},
		Confidence: 0.9,
		Reason:     "Spring Boot applications are implemented in Java",
	},
	{
		Skill:      "HTTP",
		Signals:    []string{"rest api", "rest apis"},
		Confidence: 0.95,
		Reason:     "REST API development implies HTTP",
	},
	{
		Skill:      "Distributed Systems",
		Signals:    []string{"microservices", "scalable"},
		Confidence: 0.85,
		Reason:     "Microservice and scalability work implies distributed systems",
	},
	{
		Skill:      "Cloud Architecture",
		Signals:    []string{"aws", "deployment", "scaling"},
		Confidence: 0.8,
		Reason:     "Cloud deployment and scaling work implies cloud architecture",
	},
	{
		Skill:      "Relational Databases",
		Signals:    []string{"sql", "schema"},
		Confidence: 0.8,
		Reason:     "SQL and schema work implies relational databases",
	},
	{
		Skill:      "NoSQL Databases",
		Signals:    []string{"redis", "dynamodb"},
		Confidence: 0.9,
		Reason:     "Redis or DynamoDB usage implies NoSQL databases",
	},
	{
		Skill:      "CI/CD",
		Signals:    []string{"github actions", "bamboo", "pipeline"},
		Confidence: 0.85,
		Reason:     "Pipeline tooling implies CI/CD practice",
	},
	{
		Skill:      "Monitoring & Observability",
		Signals:    []string{"uptime", "alerts", "monitoring"},
		Confidence: 0.75,
		Reason:     "Uptime and alerting work implies monitoring practice",
	},
}

// RoleProfile names a role and the keywords whose presence signals it.
type RoleProfile struct {
	Name     string
	Keywords []string
}

// RoleProfiles is the fixed role signal table. Slice order is the tie-break
// priority: when two roles draw the same signal count the earlier one wins.
var RoleProfiles = []RoleProfile{
	{
		Name: "backend",
		Keywords: []string{
			"java", "spring", "spring boot", "rest", "api",
			"microservices", "backend", "distributed",
			"data structures", "algorithms", "j2ee",
		},
	},
	{
		Name: "infra",
		Keywords: []string{
			"kubernetes", "docker", "terraform", "aws",
			"gcp", "azure", "ci/cd", "helm", "devops",
			"monitoring", "prometheus", "grafana",
		},
	},
	{
		Name: "frontend",
		Keywords: []string{
			"react", "angular", "vue", "javascript",
			"typescript", "html", "css", "frontend",
		},
	},
}

// FullstackThreshold is the per-role signal count at which simultaneous
// backend and infra evidence overrides the winner to "fullstack".
const FullstackThreshold = 5

// RoleConfidenceMultipliers re-weights inferred-skill confidence by the
// detected role: a Java inference is strong evidence for a backend resume
// and weak evidence for an infra one.
var RoleConfidenceMultipliers = map[string]map[string]float64{
	"backend": {
		"Java":                1.0,
		"HTTP":                1.0,
		"Distributed Systems": 1.0,
		"Cloud Architecture":  0.95,
		"CI/CD":               0.9,
	},
	"infra": {
		"Java":                0.6,
		"HTTP":                0.7,
		"Distributed Systems": 0.85,
		"Cloud Architecture":  1.0,
		"CI/CD":               1.0,
	},
	"fullstack": {
		"Java":                0.85,
		"HTTP":                1.0,
		"Distributed Systems": 0.85,
		"Cloud Architecture":  0.85,
		"CI/CD":               0.9,
	},
}
