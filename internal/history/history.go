// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history owns the persisted ledger of previously surfaced event
// clusters. Exactly one Store exists per run: load once, mutate in memory,
// save once. Load and save failures are fatal to the run; a corrupted
// ledger must not be papered over.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/curation-engine/pkg/types"
)

const dateFmt = "2006-01-02"

// Store manages the history ledger file.
type Store struct {
	path            string
	retentionDays   int
	dedupWindowDays int
	data            types.HistoryFile
}

// NewStore builds a store for cfg. Zero day counts fall back to the
// defaults (30-day retention, 7-day dedup window).
func NewStore(cfg types.HistoryConfig) *Store {
	retention := cfg.RetentionDays
	if retention <= 0 {
		retention = 30
	}
	window := cfg.DedupWindowDays
	if window <= 0 {
		window = 7
	}
	return &Store{
		path:            cfg.Path,
		retentionDays:   retention,
		dedupWindowDays: window,
	}
}

// Load reads the ledger file if present; a missing file starts empty.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = types.HistoryFile{}
			return nil
		}
		return fmt.Errorf("reading history %s: %w", s.path, err)
	}
	var hf types.HistoryFile
	if err := json.Unmarshal(data, &hf); err != nil {
		return fmt.Errorf("parsing history %s: %w", s.path, err)
	}
	s.data = hf
	return nil
}

// Save stamps last_updated with today and persists the whole ledger,
// creating the parent directory if needed.
func (s *Store) Save(today time.Time) error {
	s.data.LastUpdated = today.Format(dateFmt)

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating history directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing history %s: %w", s.path, err)
	}
	return nil
}

// ApplyRetention removes entries last seen strictly before
// today-retentionDays and returns the removed count. Blank or unparsable
// last-seen dates count as today, so malformed entries are never pruned.
func (s *Store) ApplyRetention(today time.Time) int {
	cutoff := today.AddDate(0, 0, -s.retentionDays)
	kept := s.data.Entries[:0]
	for _, e := range s.data.Entries {
		if !parseDateOr(e.LastSeen, today).Before(cutoff) {
			kept = append(kept, e)
		}
	}
	removed := len(s.data.Entries) - len(kept)
	s.data.Entries = kept
	return removed
}

// DedupWindow returns entries last seen on or after today-dedupWindowDays.
func (s *Store) DedupWindow(today time.Time) []types.HistoryEntry {
	cutoff := today.AddDate(0, 0, -s.dedupWindowDays)
	var window []types.HistoryEntry
	for _, e := range s.data.Entries {
		if !parseDateOr(e.LastSeen, today).Before(cutoff) {
			window = append(window, e)
		}
	}
	return window
}

// AddEntries merges new entries into the ledger. An existing cluster ID has
// its last-seen bumped and its URL set unioned with the new entry's;
// a new cluster ID is appended with first/last seen defaulting to today.
func (s *Store) AddEntries(entries []types.HistoryEntry, today time.Time) {
	todayStr := today.Format(dateFmt)

	index := make(map[string]int, len(s.data.Entries))
	for i, e := range s.data.Entries {
		index[e.ClusterID] = i
	}

	for _, entry := range entries {
		if i, ok := index[entry.ClusterID]; ok {
			existing := &s.data.Entries[i]
			if entry.LastSeen != "" {
				existing.LastSeen = entry.LastSeen
			} else {
				existing.LastSeen = todayStr
			}
			existing.URLs = unionURLs(existing.URLs, entry.URLs)
			continue
		}
		if entry.FirstSeen == "" {
			entry.FirstSeen = todayStr
		}
		if entry.LastSeen == "" {
			entry.LastSeen = todayStr
		}
		s.data.Entries = append(s.data.Entries, entry)
		index[entry.ClusterID] = len(s.data.Entries) - 1
	}
}

// Entries returns the current in-memory ledger entries.
func (s *Store) Entries() []types.HistoryEntry {
	return s.data.Entries
}

// LastUpdated returns the ledger's last-updated stamp, blank for a fresh
// ledger. The orchestrator uses it as the previous run date.
func (s *Store) LastUpdated() string {
	return s.data.LastUpdated
}

// unionURLs merges two URL lists preserving first-seen order.
func unionURLs(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	merged := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, u := range list {
			if !seen[u] {
				seen[u] = true
				merged = append(merged, u)
			}
		}
	}
	return merged
}

// parseDateOr parses an ISO date leniently: a blank or unparsable value
// yields fallback. The over-retention bias is deliberate.
func parseDateOr(value string, fallback time.Time) time.Time {
	t, err := time.Parse(dateFmt, value)
	if err != nil {
		return fallback
	}
	return t
}
