// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scout discovers candidate items from pluggable sources. Concrete
// web/RSS/news adapters are external collaborators; each implements Source.
package scout

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/curation-engine/internal/profile"
	"github.com/pdiddy/curation-engine/pkg/types"
)

// Source fetches candidates for one interest. Each adapter (grounded
// generation, web search, RSS) implements this interface per the Strategy
// pattern.
type Source interface {
	Name() string
	Fetch(ctx context.Context, interest string, since time.Time) ([]types.Candidate, error)
}

// Scout runs every source for every profile interest, tolerating individual
// source failures and deduplicating candidates by URL.
type Scout struct {
	sources []Source
	cfg     types.ScoutConfig
	w       io.Writer
}

// NewScout builds the discovery stage. Progress is written to w.
func NewScout(sources []Source, cfg types.ScoutConfig, w io.Writer) *Scout {
	if w == nil {
		w = io.Discard
	}
	if cfg.MaxAgeHours <= 0 {
		cfg.MaxAgeHours = 48
	}
	return &Scout{sources: sources, cfg: cfg, w: w}
}

// Run fetches candidates for each interest from each source. A failing
// source is logged and skipped; discovery never aborts the run. Candidates
// without a URL or with an already-seen URL are dropped.
func (s *Scout) Run(ctx context.Context, prof profile.Profile, lastRun string) []types.Candidate {
	if len(prof.Interests) == 0 {
		return nil
	}

	since := sinceCutoff(lastRun, s.cfg.MaxAgeHours, time.Now())
	fmt.Fprintf(s.w, "scout: fetching candidates since %s\n", since.Format(time.RFC3339))

	seen := make(map[string]bool)
	var all []types.Candidate

	for _, src := range s.sources {
		for _, interest := range prof.Interests {
			candidates, err := src.Fetch(ctx, interest, since)
			if err != nil {
				fmt.Fprintf(s.w, "warning: source %s failed for interest %q: %v\n", src.Name(), interest, err)
				continue
			}
			for _, c := range candidates {
				if c.URL == "" || seen[c.URL] {
					continue
				}
				seen[c.URL] = true
				if c.InterestQuery == "" {
					c.InterestQuery = interest
				}
				all = append(all, c)
			}
		}
	}

	fmt.Fprintf(s.w, "scout: discovered %d unique candidates\n", len(all))
	return all
}

// sinceCutoff derives the discovery cutoff from the previous run date when
// it parses, otherwise from now-maxAgeHours.
func sinceCutoff(lastRun string, maxAgeHours int, now time.Time) time.Time {
	if lastRun != "" {
		if t, err := time.Parse("2006-01-02", lastRun); err == nil {
			return t
		}
	}
	return now.Add(-time.Duration(maxAgeHours) * time.Hour)
}
