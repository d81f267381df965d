package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/ats-engine/internal/schemas"
	"github.com/jonathan/ats-engine/internal/types"
)

// resolveAPIKey returns the flag value or falls back to GEMINI_API_KEY.
func resolveAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
}

// loadJDAnalysis reads a saved JD analysis JSON file.
func loadJDAnalysis(path string) (types.JobDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.JobDescription{}, fmt.Errorf("failed to read jd analysis file: %w", err)
	}
	var jd types.JobDescription
	if err := json.Unmarshal(data, &jd); err != nil {
		return types.JobDescription{}, fmt.Errorf("failed to parse jd analysis JSON: %w", err)
	}
	if jd.Keywords.IsEmpty() {
		return types.JobDescription{}, fmt.Errorf("jd analysis carries no keywords: %s", path)
	}
	return jd, nil
}

// writeJSON marshals v with indentation and writes it to path, or to stdout
// when path is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if path == "" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// validateOutput validates a written JSON file against a schema when the
// schema can be found. Validation failures are errors; a missing or broken
// schema only warns, so the command still works from unusual working
// directories.
func validateOutput(schemaRelPath, jsonPath string) error {
	if jsonPath == "" {
		return nil
	}
	schemaPath := schemas.ResolveSchemaPath(schemaRelPath)
	if schemaPath == "" {
		return nil
	}

	if err := schemas.ValidateJSON(schemaPath, jsonPath); err != nil {
		var validationErr *schemas.ValidationError
		var schemaLoadErr *schemas.SchemaLoadError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("generated JSON does not validate against schema: %w", err)
		}
		if errors.As(err, &schemaLoadErr) {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema (schema loading failed): %v\n", err)
			return nil
		}
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
	}
	return nil
}
