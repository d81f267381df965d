// Package config provides configuration loading and validation for the CLI,
// the HTTP server, and the queue worker.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/ats-engine/internal/grounding"
)

// Config represents the engine configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Resume string `json:"resume,omitempty"`  // Path to resume file (txt, md, pdf, docx)
	Job    string `json:"job,omitempty"`     // Path to job posting text file
	JobURL string `json:"job_url,omitempty"` // URL to fetch the job posting from

	// Identity
	UserID   string `json:"user_id,omitempty"`   // User UUID (required for DB-backed runs)
	ResumeID string `json:"resume_id,omitempty"` // Resume id carried through batch results

	// Engine knobs
	Concurrency       int     `json:"concurrency,omitempty"`         // Batch fan-out limit (0 uses the engine default)
	MinSimilarity     float64 `json:"min_similarity,omitempty"`      // Grounding overlap threshold (0.0-1.0)
	RequestsPerMinute int     `json:"requests_per_minute,omitempty"` // LLM request budget per minute (0 uses the client default)

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Use headless browser for SPA job boards
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Server
	ListenAddr string `json:"listen_addr,omitempty"` // HTTP listen address for serve mode

	// Worker
	AMQPURL     string `json:"amqp_url,omitempty"`     // RabbitMQ connection URL for work mode
	IngestQueue string `json:"ingest_queue,omitempty"` // Queue carrying analysis jobs
	ResultQueue string `json:"result_queue,omitempty"` // Queue receiving completed analyses
	S3Bucket    string `json:"s3_bucket,omitempty"`    // Bucket holding queued resume documents
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	// Validate numeric ranges
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("config error: 'requests_per_minute' must be non-negative")
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return fmt.Errorf("config error: 'min_similarity' must be between 0.0 and 1.0")
	}

	// Validate file paths exist (if specified)
	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}

	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.ResumeID == "" {
		result.ResumeID = defaults.ResumeID
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if result.AMQPURL == "" {
		result.AMQPURL = defaults.AMQPURL
	}
	if result.IngestQueue == "" {
		result.IngestQueue = defaults.IngestQueue
	}
	if result.ResultQueue == "" {
		result.ResultQueue = defaults.ResultQueue
	}
	if result.S3Bucket == "" {
		result.S3Bucket = defaults.S3Bucket
	}

	// Int fields: use default if zero
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.RequestsPerMinute == 0 {
		result.RequestsPerMinute = defaults.RequestsPerMinute
	}

	// Float fields
	if result.MinSimilarity == 0 {
		if defaults.MinSimilarity > 0 {
			result.MinSimilarity = defaults.MinSimilarity
		} else {
			result.MinSimilarity = grounding.DefaultMinSimilarity
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
