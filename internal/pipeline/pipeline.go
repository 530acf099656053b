// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the fixed stage sequence: discovery, filter,
// cluster/dedup, enrichment, then score-and-publish. Stage degradation is
// logged and tolerated; only history and publish failures halt a run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/curation-engine/internal/cluster"
	"github.com/pdiddy/curation-engine/internal/profile"
	"github.com/pdiddy/curation-engine/internal/sentinel"
	"github.com/pdiddy/curation-engine/pkg/types"
)

const dateFmt = "2006-01-02"

// Ledger is the persisted cluster history. history.Store is the bundled
// implementation.
type Ledger interface {
	Load() error
	Save(today time.Time) error
	ApplyRetention(today time.Time) int
	DedupWindow(today time.Time) []types.HistoryEntry
	AddEntries(entries []types.HistoryEntry, today time.Time)
	LastUpdated() string
}

// Discoverer is the discovery stage.
type Discoverer interface {
	Run(ctx context.Context, prof profile.Profile, lastRun string) []types.Candidate
}

// Filterer is the relevance filter stage.
type Filterer interface {
	Run(ctx context.Context, candidates []types.Candidate, prof profile.Profile, today time.Time) sentinel.Output
}

// Clusterer is the grouping and dedup stage.
type Clusterer interface {
	Run(ctx context.Context, candidates []types.FilteredCandidate, window []types.HistoryEntry) cluster.Output
}

// Enricher is the analysis stage.
type Enricher interface {
	Run(ctx context.Context, clusters []types.EventCluster) []types.ClusterAnalysis
}

// Selector is the scoring and ranking stage.
type Selector interface {
	Run(ctx context.Context, analyses []types.ClusterAnalysis) []types.DigestStory
}

// DigestWriter persists the finished digest artifacts.
type DigestWriter interface {
	Publish(digest types.Digest) error
}

// Archiver records cluster analyses for later inspection. It is optional;
// archive failures only degrade the run.
type Archiver interface {
	RecordRun(runDate string, analyses []types.ClusterAnalysis) error
}

// CallCounter reports cumulative outbound generation calls. The gateway's
// counter is read once at the end of the run so uncounted per-stage calls
// are still captured.
type CallCounter interface {
	CallCount() int
}

// Pipeline wires the stages for one run.
type Pipeline struct {
	Ledger    Ledger
	Scout     Discoverer
	Sentinel  Filterer
	Cluster   Clusterer
	Analyst   Enricher
	Editor    Selector
	Publisher DigestWriter
	Archiver  Archiver
	Counter   CallCounter
	Progress  io.Writer
}

// Run executes the full stage sequence for today and returns the published
// digest. A run with zero discovered candidates still completes and
// publishes an empty digest with updated metadata and history.
func (p *Pipeline) Run(ctx context.Context, prof profile.Profile, today time.Time) (types.Digest, error) {
	w := p.Progress
	if w == nil {
		w = io.Discard
	}
	todayStr := today.Format(dateFmt)

	if err := p.Ledger.Load(); err != nil {
		return types.Digest{}, fmt.Errorf("loading history: %w", err)
	}
	if removed := p.Ledger.ApplyRetention(today); removed > 0 {
		fmt.Fprintf(w, "history: pruned %d stale entries\n", removed)
	}

	candidates := p.Scout.Run(ctx, prof, p.Ledger.LastUpdated())
	filtered := p.Sentinel.Run(ctx, candidates, prof, today)
	clustered := p.Cluster.Run(ctx, filtered.Passed, p.Ledger.DedupWindow(today))
	analyses := p.Analyst.Run(ctx, clustered.Clusters)

	if p.Archiver != nil && len(analyses) > 0 {
		if err := p.Archiver.RecordRun(todayStr, analyses); err != nil {
			fmt.Fprintf(w, "warning: archiving analyses failed: %v\n", err)
		}
	}

	stories := p.Editor.Run(ctx, analyses)

	digest := types.Digest{
		Date:    todayStr,
		Stories: stories,
		Metadata: types.RunMetadata{
			RunDate:          todayStr,
			TotalDiscovered:  len(candidates),
			AfterFilter:      len(filtered.Passed),
			ClustersFormed:   len(clustered.Clusters) + clustered.DupCount,
			AfterDedup:       len(clustered.Clusters),
			StoriesPublished: len(stories),
		},
	}
	if p.Counter != nil {
		digest.Metadata.TotalCalls = p.Counter.CallCount()
	}

	p.Ledger.AddEntries(ledgerEntries(clustered.Clusters), today)
	if err := p.Ledger.Save(today); err != nil {
		return types.Digest{}, fmt.Errorf("saving history: %w", err)
	}

	if err := p.Publisher.Publish(digest); err != nil {
		return types.Digest{}, fmt.Errorf("publishing digest: %w", err)
	}

	fmt.Fprintf(w, "pipeline: published %d stories (%d calls)\n",
		len(stories), digest.Metadata.TotalCalls)
	return digest, nil
}

// ledgerEntries converts surviving clusters into history entries. Duplicate
// clusters were already dropped by the cluster stage and never re-enter the
// ledger here; the matching entry's last-seen is left to AddEntries.
func ledgerEntries(clusters []types.EventCluster) []types.HistoryEntry {
	entries := make([]types.HistoryEntry, 0, len(clusters))
	for _, c := range clusters {
		urls := make([]string, 0, len(c.Candidates))
		for _, m := range c.Candidates {
			if m.URL != "" {
				urls = append(urls, m.URL)
			}
		}
		entries = append(entries, types.HistoryEntry{
			ClusterID: c.ClusterID,
			Label:     c.Label,
			URLs:      urls,
		})
	}
	return entries
}
