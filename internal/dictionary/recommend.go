package dictionary

// SkillAdjacency maps a skill someone already has to the skills commonly
// learned next to it. Quick-win recommendations come from here: when an
// adjacent skill is missing from the resume but wanted by the JD, it is a
// cheap surface to add.
var SkillAdjacency = map[string][]string{
	"java":       {"spring boot", "spring", "j2ee", "maven", "gradle"},
	"python":     {"django", "flask", "fastapi", "pandas", "numpy"},
	"javascript": {"typescript", "react", "node.js", "express"},
	"sql":        {"database", "postgresql", "mysql", "oracle"},
	"aws":        {"cloud", "ec2", "s3", "lambda", "docker"},
	"docker":     {"kubernetes", "containerization", "ci/cd"},
	"rest":       {"api", "http", "json", "microservices"},
}

// JDPhraseCanonical folds verbose JD keyword phrasing into ATS-safe forms
// before any matching runs.
var JDPhraseCanonical = map[string]string{
	"cloud-based software architecture design and development": "cloud-based architecture design",
	"cloud-based software architecture":                        "cloud-based architecture design",
	"backend application development (large-scale)":            "large-scale backend systems",
	"large-scale backend application development":              "large-scale backend systems",
	"api design (modular and extensible)":                      "modular and extensible api design",
	"relational database design and usage":                     "relational databases",
	"nosql database design and usage":                          "nosql databases",
	"payments & billing domain expertise (large-scale systems)": "payments and billing systems",
	"java ecosystems and frameworks":                           "java",
	"java ee (j2ee)":                                           "j2ee",
}

// SkillCanonical maps skill spelling variations to one canonical display
// form, so "java/j2ee" and "Java technologies" collapse into "Java".
var SkillCanonical = map[string]string{
	"java":                         "Java",
	"java technologies":            "Java",
	"java/j2ee":                    "Java",
	"j2ee":                         "Java",
	"java ee":                      "Java",
	"java enterprise":              "Java",
	"java ecosystem":               "Java",
	"java expertise":               "Java",
	"java proficiency":             "Java",
	"java development":             "Java",
	"rest":                         "REST",
	"rest api":                     "REST",
	"restful":                      "REST",
	"restful api":                  "REST",
	"restful apis":                 "REST",
	"graphql":                      "GraphQL",
	"graph ql":                     "GraphQL",
	"grpc":                         "gRPC",
	"g rpc":                        "gRPC",
	"nosql":                        "NoSQL",
	"nosql databases":              "NoSQL databases",
	"no sql":                       "NoSQL",
	"data structures":              "Data structures",
	"data structures and algorithms": "Data structures and algorithms",
	"dsa":                            "Data structures and algorithms",
	"algorithms":                     "Algorithms",
	"data structures & algorithms":   "Data structures and algorithms",
	"documentation":                  "Documentation",
	"documentation best practices":   "Documentation best practices",
	"technical documentation":        "Documentation",
}

// CoreSkills are short, high-frequency skill names that substring-contain
// checks treat leniently during deduplication ("java" absorbs "java
// expertise" regardless of length ratio).
var CoreSkills = []string{
	"java", "rest", "python", "javascript", "sql", "aws", "docker", "kubernetes",
}
