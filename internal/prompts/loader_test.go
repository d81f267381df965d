package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("rewrite.json", "rewrite-resume")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "ANTI-HALLUCINATION RULES")
	assert.Contains(t, prompt, "{{.AllowedKeywords}}")
	assert.Contains(t, prompt, "{{.Resume}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("rewrite.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("rewrite.json", "rewrite-resume")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Keywords:\n{{.AllowedKeywords}}\n\nResume:\n{{.Resume}}"
	data := map[string]string{
		"AllowedKeywords": "java, spring boot",
		"Resume":          "Built Java services.",
	}

	result := Format(template, data)
	assert.Equal(t, "Keywords:\njava, spring boot\n\nResume:\nBuilt Java services.", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestCaching(t *testing.T) {
	ClearCache()

	// First call loads from file
	prompt1, err := Get("rewrite.json", "rewrite-resume")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("rewrite.json", "rewrite-resume")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
