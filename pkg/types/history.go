// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// HistoryEntry records one previously surfaced event cluster. Dates are
// ISO YYYY-MM-DD strings; blank or unparsable dates are treated as "today"
// by the store, deliberately biasing toward over-retention.
type HistoryEntry struct {
	ClusterID string   `json:"cluster_id" yaml:"cluster_id"`
	Label     string   `json:"label" yaml:"label"`
	URLs      []string `json:"urls" yaml:"urls"`
	FirstSeen string   `json:"first_seen" yaml:"first_seen"`
	LastSeen  string   `json:"last_seen" yaml:"last_seen"`
}

// HistoryFile is the persisted ledger of surfaced clusters. One per
// deployment, owned exclusively by the history store during a run.
type HistoryFile struct {
	Entries     []HistoryEntry `json:"entries" yaml:"entries"`
	LastUpdated string         `json:"last_updated" yaml:"last_updated"`
}
