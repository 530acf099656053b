// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StoryMetrics holds the editor's 1-10 curation scores for a story.
type StoryMetrics struct {
	// Breaking rates time sensitivity: 10 is happening right now.
	Breaking int `json:"breaking" yaml:"breaking"`

	// Importance rates global significance.
	Importance int `json:"importance" yaml:"importance"`

	// SNR rates signal-to-noise: 10 is pure substance.
	SNR int `json:"snr" yaml:"snr"`
}

// DigestStory is one published entry in the daily digest.
type DigestStory struct {
	ClusterID string       `json:"cluster_id" yaml:"cluster_id"`
	Headline  string       `json:"headline" yaml:"headline"`
	CoreFact  string       `json:"core_fact" yaml:"core_fact"`
	Summary   string       `json:"summary" yaml:"summary"`
	Sources   []string     `json:"sources" yaml:"sources"`
	Metrics   StoryMetrics `json:"metrics" yaml:"metrics"`
	Label     string       `json:"label" yaml:"label"`
}

// RunMetadata accounts for what each stage saw and how many outbound
// generation calls the whole run incurred. TotalCalls is taken from the
// gateway's cumulative counter at the end of the run, not summed from
// per-stage reports, so an uncounted call is still captured.
type RunMetadata struct {
	RunDate          string `json:"run_date" yaml:"run_date"`
	TotalDiscovered  int    `json:"total_discovered" yaml:"total_discovered"`
	AfterFilter      int    `json:"after_filter" yaml:"after_filter"`
	ClustersFormed   int    `json:"clusters_formed" yaml:"clusters_formed"`
	AfterDedup       int    `json:"after_dedup" yaml:"after_dedup"`
	StoriesPublished int    `json:"stories_published" yaml:"stories_published"`
	TotalCalls       int    `json:"total_api_calls" yaml:"total_api_calls"`
}

// Digest is the final ranked set of stories for one run.
type Digest struct {
	Date     string        `json:"date" yaml:"date"`
	Stories  []DigestStory `json:"stories" yaml:"stories"`
	Metadata RunMetadata   `json:"metadata" yaml:"metadata"`
}

// ArchiveEntry points at one published per-date digest artifact.
type ArchiveEntry struct {
	Date       string `json:"date" yaml:"date"`
	File       string `json:"file" yaml:"file"`
	StoryCount int    `json:"story_count" yaml:"story_count"`
}

// ArchiveIndex lists all published digests, at most one entry per date,
// sorted descending by date.
type ArchiveIndex struct {
	Digests []ArchiveEntry `json:"digests" yaml:"digests"`
}
