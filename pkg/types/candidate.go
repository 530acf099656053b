// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data model shared across pipeline stages.
package types

// Candidate is a single discovered item before filtering and grouping.
// Candidates are immutable once produced by a discovery source.
type Candidate struct {
	// Title is the headline, translated to English by the source.
	Title string `json:"title" yaml:"title"`

	// URL identifies the item and is the unit of deduplication.
	URL string `json:"url" yaml:"url"`

	// Snippet is a one-to-two sentence summary.
	Snippet string `json:"snippet" yaml:"snippet"`

	// SourceLanguage is the BCP-47 primary tag of the originating source.
	SourceLanguage string `json:"source_language" yaml:"source_language"`

	// InterestQuery is the profile interest that surfaced this candidate.
	InterestQuery string `json:"interest_query" yaml:"interest_query"`
}

// FilteredCandidate is a Candidate that passed relevance filtering.
type FilteredCandidate struct {
	Candidate `yaml:",inline"`

	// RelevanceScore is the filter oracle's score in [0, 1].
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}
