// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cluster turns the grouping oracle's suggestions into canonical,
// deterministically identified event clusters and flags duplicates against
// the recent history window.
package cluster

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/curation-engine/pkg/types"
)

// Group is one suggested grouping from the oracle: indices into the ordered
// candidate list plus the index of the most comprehensive member.
type Group struct {
	Label            string `json:"label"`
	CandidateIndices []int  `json:"candidate_indices"`
	BestIndex        int    `json:"best_index"`
}

// Grouper is the external grouping oracle. It need not cover every
// candidate; indices absent from all groups are dropped.
type Grouper interface {
	Group(ctx context.Context, candidates []types.FilteredCandidate) ([]Group, error)
}

// Output holds the surviving clusters and the count flagged as duplicates
// of history.
type Output struct {
	Clusters []types.EventCluster
	DupCount int
}

// Engine reconciles oracle groupings against history.
type Engine struct {
	grouper Grouper
	w       io.Writer
}

// NewEngine builds an engine around the grouping oracle. Progress and
// degradation notices are written to w.
func NewEngine(grouper Grouper, w io.Writer) *Engine {
	if w == nil {
		w = io.Discard
	}
	return &Engine{grouper: grouper, w: w}
}

// ClusterID computes the deterministic cluster identifier: the first 16 hex
// characters of SHA-256 over the deduplicated, lexicographically sorted
// member URLs joined by newlines. Identical membership yields an identical
// ID regardless of order or repeats.
func ClusterID(urls []string) string {
	unique := make(map[string]bool, len(urls))
	for _, u := range urls {
		unique[u] = true
	}
	sorted := make([]string, 0, len(unique))
	for u := range unique {
		sorted = append(sorted, u)
	}
	sort.Strings(sorted)

	canonical := ""
	for i, u := range sorted {
		if i > 0 {
			canonical += "\n"
		}
		canonical += u
	}
	sum := sha256.Sum256([]byte(canonical))
	return fmt.Sprintf("%x", sum)[:16]
}

// Run groups candidates via the oracle and splits the result into surviving
// clusters and history duplicates. When the oracle fails, every candidate
// degrades to its own singleton cluster labeled by its title.
func (e *Engine) Run(ctx context.Context, candidates []types.FilteredCandidate, window []types.HistoryEntry) Output {
	if len(candidates) == 0 {
		return Output{}
	}

	groups, err := e.grouper.Group(ctx, candidates)
	if err != nil {
		fmt.Fprintf(e.w, "warning: grouping failed, falling back to singleton clusters: %v\n", err)
		groups = singletonGroups(candidates)
	}

	historyURLs := make(map[string]bool)
	for _, h := range window {
		for _, u := range h.URLs {
			historyURLs[u] = true
		}
	}

	var out Output
	for _, g := range groups {
		members := make([]types.FilteredCandidate, 0, len(g.CandidateIndices))
		valid := make([]int, 0, len(g.CandidateIndices))
		for _, idx := range g.CandidateIndices {
			if idx >= 0 && idx < len(candidates) {
				members = append(members, candidates[idx])
				valid = append(valid, idx)
			}
		}
		if len(members) == 0 {
			continue
		}

		urls := make([]string, len(members))
		for i, m := range members {
			urls[i] = m.URL
		}

		// The representative falls back to the group's own first member,
		// never to global index 0.
		best := g.BestIndex
		if best < 0 || best >= len(candidates) {
			best = valid[0]
		}

		overlap := 0
		for _, u := range urls {
			if historyURLs[u] {
				overlap++
			}
		}
		// Strict majority: exactly half is not a duplicate.
		isDup := 2*overlap > len(urls)

		c := types.EventCluster{
			ClusterID:          ClusterID(urls),
			Label:              g.Label,
			Candidates:         members,
			BestURL:            candidates[best].URL,
			DuplicateOfHistory: isDup,
		}

		if isDup {
			out.DupCount++
			fmt.Fprintf(e.w, "deduped cluster %s: %s\n", c.ClusterID, c.Label)
			continue
		}
		out.Clusters = append(out.Clusters, c)
	}

	return out
}

// singletonGroups is the degraded grouping: one cluster per candidate,
// labeled with the candidate's own title and representing itself.
func singletonGroups(candidates []types.FilteredCandidate) []Group {
	groups := make([]Group, len(candidates))
	for i, c := range candidates {
		groups[i] = Group{
			Label:            c.Title,
			CandidateIndices: []int{i},
			BestIndex:        i,
		}
	}
	return groups
}
