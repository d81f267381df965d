package dictionary

// TechnologyTerms are concrete technology names the grounding validator
// treats as hard evidence: generated text naming one of these when the
// source document never does is fabrication, whatever the word-overlap
// ratio says.
var TechnologyTerms = []string{
	"python", "java", "javascript", "react", "node", "aws", "docker",
	"kubernetes", "sql", "mongodb", "redis", "postgresql", "mysql",
	"git", "jenkins", "terraform", "ansible",
}

// PracticeTerms are methodology and architecture terms held to the same
// standard as TechnologyTerms.
var PracticeTerms = []string{
	"api", "rest", "graphql", "microservices", "agile", "scrum",
	"devops", "ci/cd",
}
