// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/curation-engine/pkg/types"
)

func init() {
	viper.SetDefault("genai.model", "gemini-2.5-flash")
	viper.SetDefault("scout.languages", []string{"en"})
	viper.SetDefault("history.path", "data/history.json")
	viper.SetDefault("output.latest_path", "output/latest.json")
	viper.SetDefault("knowledge.dir", "knowledge")
	viper.SetDefault("profile.path", "data/profile.yaml")
}

// pipelineConfig assembles the pipeline configuration from viper, which has
// already merged defaults, the config file, and CURATION_ENGINE_* env vars.
// The API key falls back to the gemini-api-key secret. Zero values for
// intervals, thresholds, and day counts defer to the per-stage defaults.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		GenAI: types.GenAIConfig{
			Model:               viper.GetString("genai.model"),
			APIKey:              secretDefault("gemini-api-key", viper.GetString("genai.api_key")),
			MinCallInterval:     viper.GetDuration("genai.min_call_interval"),
			MaxAttempts:         viper.GetInt("genai.max_attempts"),
			InitialBackoff:      viper.GetDuration("genai.initial_backoff"),
			RateLimitBackoffCap: viper.GetDuration("genai.rate_limit_backoff_cap"),
			Timeout:             viper.GetDuration("genai.timeout"),
		},
		Scout: types.ScoutConfig{
			Languages:   viper.GetStringSlice("scout.languages"),
			MaxAgeHours: viper.GetInt("scout.max_age_hours"),
		},
		Sentinel: types.SentinelConfig{
			RelevanceThreshold: viper.GetFloat64("sentinel.relevance_threshold"),
		},
		Editor: types.EditorConfig{
			SNRThreshold:        viper.GetInt("editor.snr_threshold"),
			BreakingThreshold:   viper.GetInt("editor.breaking_threshold"),
			ImportanceThreshold: viper.GetInt("editor.importance_threshold"),
		},
		History: types.HistoryConfig{
			Path:            viper.GetString("history.path"),
			RetentionDays:   viper.GetInt("history.retention_days"),
			DedupWindowDays: viper.GetInt("history.dedup_window_days"),
		},
		Output: types.OutputConfig{
			LatestPath: viper.GetString("output.latest_path"),
		},
		Knowledge: types.KnowledgeConfig{
			Dir: viper.GetString("knowledge.dir"),
		},
		Profile: types.ProfileConfig{
			Path: viper.GetString("profile.path"),
		},
	}
}
