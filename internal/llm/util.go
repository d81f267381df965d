// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"regexp"
	"strings"
)

// CleanJSONBlock extracts the JSON payload from an LLM response.
// It removes markdown code fences and any conversational preamble or
// trailer around the first complete JSON object or array. LLMs wrap
// JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	} else if strings.HasPrefix(text, "```") {
		// Handle generic ``` ... ``` blocks
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			// If first line looks like a language identifier (no spaces, short), skip it
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	// Strip conversational prose around the first JSON value.
	if value := firstJSONValue(text); value != "" {
		return value
	}
	return text
}

var (
	trailingObjectComma = regexp.MustCompile(`,\s*}`)
	trailingArrayComma  = regexp.MustCompile(`,\s*\]`)
)

// RepairJSON fixes the formatting errors models most often make: raw
// newlines inside string values and trailing commas before a closing
// brace or bracket. The result is not guaranteed to parse; callers
// still unmarshal and handle errors.
func RepairJSON(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = trailingObjectComma.ReplaceAllString(text, "}")
	text = trailingArrayComma.ReplaceAllString(text, "]")
	return text
}

// firstJSONValue returns the first complete JSON object or array in text,
// or "" when none is present.
func firstJSONValue(text string) string {
	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")
	switch {
	case objStart < 0 && arrStart < 0:
		return ""
	case arrStart < 0 || (objStart >= 0 && objStart < arrStart):
		return extractJSONObject(text[objStart:])
	default:
		return extractJSONArray(text[arrStart:])
	}
}

// extractJSONObject returns the balanced JSON object at the start of text,
// or "" when text does not start one.
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the balanced JSON array at the start of text,
// or "" when text does not start one.
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

// extractBalanced scans for the matching close delimiter, ignoring
// delimiters inside string literals and escaped quotes.
func extractBalanced(text string, open, close byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// string contents never affect nesting
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
