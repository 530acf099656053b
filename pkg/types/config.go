// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// GenAIConfig holds settings for the outbound generation gateway.
type GenAIConfig struct {
	// Model is the generation model identifier.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MinCallInterval is the minimum spacing between two outbound calls
	// from one gateway instance (default 2s).
	MinCallInterval time.Duration `json:"min_call_interval" yaml:"min_call_interval"`

	// MaxAttempts bounds retries per call, first attempt included (default 5).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// InitialBackoff is the first retry delay; it doubles each attempt
	// (default 5s).
	InitialBackoff time.Duration `json:"initial_backoff" yaml:"initial_backoff"`

	// RateLimitBackoffCap caps the delay when the failure signature
	// indicates rate limiting (default 15s). Other failures back off
	// uncapped.
	RateLimitBackoffCap time.Duration `json:"rate_limit_backoff_cap" yaml:"rate_limit_backoff_cap"`

	// Timeout is the per-request HTTP timeout for the bundled backend.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ScoutConfig holds settings for the discovery stage.
type ScoutConfig struct {
	// Languages are the source languages queried per interest.
	Languages []string `json:"languages" yaml:"languages"`

	// MaxAgeHours bounds candidate age when no last run date is known
	// (default 48).
	MaxAgeHours int `json:"max_age_hours" yaml:"max_age_hours"`
}

// SentinelConfig holds settings for the relevance filter stage.
type SentinelConfig struct {
	// RelevanceThreshold is the minimum oracle score to pass (default 0.6).
	RelevanceThreshold float64 `json:"relevance_threshold" yaml:"relevance_threshold"`
}

// EditorConfig holds the publish thresholds for scored stories. A story is
// published when SNR meets SNRThreshold and either Breaking or Importance
// meets its threshold.
type EditorConfig struct {
	SNRThreshold        int `json:"snr_threshold" yaml:"snr_threshold"`
	BreakingThreshold   int `json:"breaking_threshold" yaml:"breaking_threshold"`
	ImportanceThreshold int `json:"importance_threshold" yaml:"importance_threshold"`
}

// HistoryConfig holds settings for the persisted cluster ledger.
type HistoryConfig struct {
	// Path is the ledger file location (default data/history.json).
	Path string `json:"path" yaml:"path"`

	// RetentionDays prunes entries last seen strictly before
	// today-RetentionDays (default 30).
	RetentionDays int `json:"retention_days" yaml:"retention_days"`

	// DedupWindowDays bounds the window new clusters are checked against
	// (default 7).
	DedupWindowDays int `json:"dedup_window_days" yaml:"dedup_window_days"`
}

// OutputConfig holds settings for published digest artifacts.
type OutputConfig struct {
	// LatestPath is the always-overwritten digest artifact (default
	// output/latest.json). Dated artifacts and the archive index are
	// written next to it.
	LatestPath string `json:"latest_path" yaml:"latest_path"`
}

// KnowledgeConfig holds settings for the cluster-analysis archive.
type KnowledgeConfig struct {
	// Dir is the directory holding the SQLite database (default knowledge/).
	Dir string `json:"dir" yaml:"dir"`
}

// ProfileConfig holds the interest profile location.
type ProfileConfig struct {
	// Path is the YAML profile document (default data/profile.yaml).
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	GenAI     GenAIConfig     `json:"genai" yaml:"genai"`
	Scout     ScoutConfig     `json:"scout" yaml:"scout"`
	Sentinel  SentinelConfig  `json:"sentinel" yaml:"sentinel"`
	Editor    EditorConfig    `json:"editor" yaml:"editor"`
	History   HistoryConfig   `json:"history" yaml:"history"`
	Output    OutputConfig    `json:"output" yaml:"output"`
	Knowledge KnowledgeConfig `json:"knowledge" yaml:"knowledge"`
	Profile   ProfileConfig   `json:"profile" yaml:"profile"`
}
