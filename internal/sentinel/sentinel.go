// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sentinel filters discovered candidates in two phases: rule-based
// mute/snooze checks against the profile, then batch relevance scoring
// through an external oracle.
package sentinel

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/curation-engine/internal/profile"
	"github.com/pdiddy/curation-engine/pkg/types"
)

// Scorer is the external relevance oracle: it returns scores in [0, 1]
// parallel to the candidate list. A shorter-than-expected array is
// tolerated by treating missing entries as 0.
type Scorer interface {
	Score(ctx context.Context, candidates []types.Candidate, interests []string) ([]float64, error)
}

// Output holds the candidates that passed and the count filtered away.
type Output struct {
	Passed        []types.FilteredCandidate
	FilteredCount int
}

// Sentinel is the filter stage.
type Sentinel struct {
	scorer Scorer
	cfg    types.SentinelConfig
	w      io.Writer
}

// NewSentinel builds the filter stage. A zero threshold falls back to 0.6.
func NewSentinel(scorer Scorer, cfg types.SentinelConfig, w io.Writer) *Sentinel {
	if w == nil {
		w = io.Discard
	}
	if cfg.RelevanceThreshold <= 0 {
		cfg.RelevanceThreshold = 0.6
	}
	return &Sentinel{scorer: scorer, cfg: cfg, w: w}
}

// Run applies the rule filter, then scores the remainder in one oracle
// call. A failing oracle degrades to pass-through scores of 1.0 rather than
// halting the run.
func (s *Sentinel) Run(ctx context.Context, candidates []types.Candidate, prof profile.Profile, today time.Time) Output {
	if len(candidates) == 0 {
		return Output{}
	}

	var passed []types.Candidate
	filtered := 0
	for _, c := range candidates {
		text := c.Title + " " + c.Snippet
		if prof.Muted(text) || prof.Snoozed(text, today) {
			filtered++
			continue
		}
		passed = append(passed, c)
	}
	fmt.Fprintf(s.w, "sentinel: %d/%d passed rule filter\n", len(passed), len(candidates))

	if len(passed) == 0 {
		return Output{FilteredCount: filtered}
	}

	scores, err := s.scorer.Score(ctx, passed, prof.Interests)
	if err != nil {
		fmt.Fprintf(s.w, "warning: relevance scoring failed, passing all candidates through: %v\n", err)
		scores = make([]float64, len(passed))
		for i := range scores {
			scores[i] = 1.0
		}
	}

	out := Output{FilteredCount: filtered}
	for i, c := range passed {
		score := 0.0
		if i < len(scores) {
			score = scores[i]
		}
		if score >= s.cfg.RelevanceThreshold {
			out.Passed = append(out.Passed, types.FilteredCandidate{
				Candidate:      c,
				RelevanceScore: score,
			})
		} else {
			out.FilteredCount++
		}
	}

	fmt.Fprintf(s.w, "sentinel: %d/%d passed relevance >= %.1f\n",
		len(out.Passed), len(passed), s.cfg.RelevanceThreshold)
	return out
}
