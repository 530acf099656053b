// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EventCluster groups candidates that describe the same underlying event.
// Clusters are created once per run and never mutated afterwards. The ID is
// a pure function of the member URL set, so the same membership observed on
// two different days yields the same ID.
type EventCluster struct {
	ClusterID  string              `json:"cluster_id" yaml:"cluster_id"`
	Label      string              `json:"label" yaml:"label"`
	Candidates []FilteredCandidate `json:"candidates" yaml:"candidates"`

	// BestURL is the representative member chosen by the grouping oracle.
	BestURL string `json:"best_url" yaml:"best_url"`

	// DuplicateOfHistory marks clusters whose member URLs overlap a strict
	// majority with the recent history window.
	DuplicateOfHistory bool `json:"is_duplicate_of_history" yaml:"is_duplicate_of_history"`
}

// ClusterAnalysis is the enrichment result for one surviving cluster.
type ClusterAnalysis struct {
	ClusterID   string `json:"cluster_id" yaml:"cluster_id"`
	Label       string `json:"label" yaml:"label"`
	BestURL     string `json:"best_url" yaml:"best_url"`
	ScrapedText string `json:"scraped_text" yaml:"scraped_text"`

	// KnowledgeDepth rates substantive new information from 1 to 10.
	KnowledgeDepth int `json:"knowledge_depth" yaml:"knowledge_depth"`

	KeyFacts       []string `json:"key_facts" yaml:"key_facts"`
	ClaimsVerified bool     `json:"claims_verified" yaml:"claims_verified"`

	// ScrapeFailed is set when no member URL yielded article text and the
	// analysis fell back to joined snippets.
	ScrapeFailed bool `json:"scrape_failed" yaml:"scrape_failed"`
}
