// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "JDAnalysis")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// JDAnalysisSchema returns the extraction schema for job descriptions.
// Extracts role, seniority, categorized skills, and ATS keyword hints.
func JDAnalysisSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "JDAnalysis",
		Description: `You are a senior technical recruiter and ATS optimization expert.
Your task is to analyze a job description and extract structured hiring signals.
STRICT RULES:
- Use ONLY information present or clearly implied in the job description.
- Do NOT invent skills, tools, or experience.
- Prefer technical, role-specific keywords.
- Normalize similar terms (e.g., "Spring" means "Spring Boot").
Classify explicitly required abilities as required skills, nice-to-have or implied
abilities as optional skills, and platforms, frameworks, and infrastructure as tools.`,
		Fields: []SchemaField{
			{
				Name:        "role",
				Type:        "\"string\"",
				Description: "Job title the posting is hiring for",
				Required:    true,
			},
			{
				Name:        "seniority",
				Type:        "\"string\"",
				Description: "Seniority level (e.g., 'junior', 'senior', 'staff')",
				Required:    false,
			},
			{
				Name:        "required_skills",
				Type:        "[\"string\"]",
				Description: "Skills the posting explicitly requires",
				Required:    true,
			},
			{
				Name:        "optional_skills",
				Type:        "[\"string\"]",
				Description: "Nice-to-have or implied skills",
				Required:    false,
			},
			{
				Name:        "tools",
				Type:        "[\"string\"]",
				Description: "Platforms, frameworks, and infrastructure",
				Required:    false,
			},
			{
				Name:        "responsibilities",
				Type:        "[\"string\"]",
				Description: "Concrete job duties",
				Required:    false,
			},
			{
				Name:        "ats_keywords",
				Type:        "[\"string\"]",
				Description: "Keywords an ATS would screen for, only if relevant to this posting",
				Required:    false,
			},
		},
	}
}
