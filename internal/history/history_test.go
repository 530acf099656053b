// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/curation-engine/pkg/types"
)

var today = time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

func isoDaysAgo(n int) string {
	return today.AddDate(0, 0, -n).Format("2006-01-02")
}

func newTestStore(t *testing.T, entries ...types.HistoryEntry) *Store {
	t.Helper()
	s := NewStore(types.HistoryConfig{
		Path:            filepath.Join(t.TempDir(), "history.json"),
		RetentionDays:   30,
		DedupWindowDays: 7,
	})
	require.NoError(t, s.Load())
	s.data.Entries = entries
	return s
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	s := NewStore(types.HistoryConfig{Path: filepath.Join(t.TempDir(), "none.json")})
	require.NoError(t, s.Load())
	assert.Empty(t, s.Entries())
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewStore(types.HistoryConfig{Path: path})
	assert.Error(t, s.Load())
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "history.json")

	s := NewStore(types.HistoryConfig{Path: path})
	require.NoError(t, s.Load())
	s.AddEntries([]types.HistoryEntry{
		{ClusterID: "abc123", Label: "event", URLs: []string{"https://a.com"}},
	}, today)
	require.NoError(t, s.Save(today))

	// Save must create the parent directory and stamp last_updated.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var hf types.HistoryFile
	require.NoError(t, json.Unmarshal(data, &hf))
	assert.Equal(t, "2026-08-23", hf.LastUpdated)
	require.Len(t, hf.Entries, 1)
	assert.Equal(t, "2026-08-23", hf.Entries[0].FirstSeen)

	reloaded := NewStore(types.HistoryConfig{Path: path})
	require.NoError(t, reloaded.Load())
	assert.Equal(t, hf.Entries, reloaded.Entries())
	assert.Equal(t, "2026-08-23", reloaded.LastUpdated())
}

func TestApplyRetention(t *testing.T) {
	s := newTestStore(t,
		types.HistoryEntry{ClusterID: "old", LastSeen: isoDaysAgo(31)},
		types.HistoryEntry{ClusterID: "boundary", LastSeen: isoDaysAgo(30)},
		types.HistoryEntry{ClusterID: "recent", LastSeen: isoDaysAgo(29)},
		types.HistoryEntry{ClusterID: "garbled", LastSeen: "not-a-date"},
		types.HistoryEntry{ClusterID: "blank", LastSeen: ""},
	)

	removed := s.ApplyRetention(today)
	assert.Equal(t, 1, removed)

	ids := make([]string, 0, len(s.Entries()))
	for _, e := range s.Entries() {
		ids = append(ids, e.ClusterID)
	}
	// Only strictly-older-than-cutoff entries go; malformed dates never prune.
	assert.Equal(t, []string{"boundary", "recent", "garbled", "blank"}, ids)
}

func TestDedupWindow(t *testing.T) {
	s := newTestStore(t,
		types.HistoryEntry{ClusterID: "in", LastSeen: isoDaysAgo(3)},
		types.HistoryEntry{ClusterID: "edge", LastSeen: isoDaysAgo(7)},
		types.HistoryEntry{ClusterID: "out", LastSeen: isoDaysAgo(10)},
		types.HistoryEntry{ClusterID: "garbled", LastSeen: "???"},
	)

	window := s.DedupWindow(today)
	ids := make([]string, 0, len(window))
	for _, e := range window {
		ids = append(ids, e.ClusterID)
	}
	assert.Equal(t, []string{"in", "edge", "garbled"}, ids)
}

func TestAddEntriesMergesByClusterID(t *testing.T) {
	s := newTestStore(t, types.HistoryEntry{
		ClusterID: "abc",
		Label:     "first sighting",
		URLs:      []string{"https://a.com", "https://b.com"},
		FirstSeen: isoDaysAgo(5),
		LastSeen:  isoDaysAgo(5),
	})

	s.AddEntries([]types.HistoryEntry{{
		ClusterID: "abc",
		Label:     "resighting",
		URLs:      []string{"https://b.com", "https://c.com"},
		LastSeen:  isoDaysAgo(0),
	}}, today)

	require.Len(t, s.Entries(), 1, "merging must not create a duplicate entry")
	got := s.Entries()[0]
	assert.Equal(t, isoDaysAgo(0), got.LastSeen)
	assert.Equal(t, isoDaysAgo(5), got.FirstSeen, "first seen is preserved on merge")
	assert.ElementsMatch(t, []string{"https://a.com", "https://b.com", "https://c.com"}, got.URLs)
}

func TestAddEntriesDefaultsBlankDatesToToday(t *testing.T) {
	s := newTestStore(t)
	s.AddEntries([]types.HistoryEntry{{ClusterID: "x", URLs: []string{"https://x.com"}}}, today)

	require.Len(t, s.Entries(), 1)
	assert.Equal(t, "2026-08-23", s.Entries()[0].FirstSeen)
	assert.Equal(t, "2026-08-23", s.Entries()[0].LastSeen)
}

func TestAddEntriesMergeWithBlankLastSeenUsesToday(t *testing.T) {
	s := newTestStore(t, types.HistoryEntry{
		ClusterID: "abc",
		URLs:      []string{"https://a.com"},
		LastSeen:  isoDaysAgo(4),
	})

	s.AddEntries([]types.HistoryEntry{{ClusterID: "abc", URLs: nil}}, today)
	assert.Equal(t, "2026-08-23", s.Entries()[0].LastSeen)
}
