// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentinel

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/curation-engine/internal/profile"
	"github.com/pdiddy/curation-engine/pkg/types"
)

type mockScorer struct {
	scores []float64
	err    error
	calls  int
	got    []types.Candidate
}

func (m *mockScorer) Score(_ context.Context, candidates []types.Candidate, _ []string) ([]float64, error) {
	m.calls++
	m.got = candidates
	return m.scores, m.err
}

var today = time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

func candidates(titles ...string) []types.Candidate {
	out := make([]types.Candidate, len(titles))
	for i, title := range titles {
		out[i] = types.Candidate{Title: title, URL: fmt.Sprintf("https://example.com/%d", i)}
	}
	return out
}

func TestRunThresholdFiltering(t *testing.T) {
	scorer := &mockScorer{scores: []float64{0.9, 0.59, 0.6}}
	s := NewSentinel(scorer, types.SentinelConfig{RelevanceThreshold: 0.6}, nil)

	out := s.Run(context.Background(), candidates("a", "b", "c"), profile.Profile{}, today)
	require.Len(t, out.Passed, 2)
	assert.Equal(t, "a", out.Passed[0].Title)
	assert.Equal(t, 0.9, out.Passed[0].RelevanceScore)
	assert.Equal(t, "c", out.Passed[1].Title, "score exactly at threshold passes")
	assert.Equal(t, 1, out.FilteredCount)
}

func TestRunMutedAndSnoozedNeverReachOracle(t *testing.T) {
	scorer := &mockScorer{scores: []float64{1.0}}
	s := NewSentinel(scorer, types.SentinelConfig{}, nil)
	prof := profile.Profile{
		MutedTopics: []string{"gossip"},
		Snoozes:     map[string]string{"elections": ""},
	}

	out := s.Run(context.Background(), candidates("celebrity gossip update", "elections heat up", "fusion record"), prof, today)
	require.Len(t, out.Passed, 1)
	assert.Equal(t, "fusion record", out.Passed[0].Title)
	assert.Equal(t, 2, out.FilteredCount)
	require.Len(t, scorer.got, 1, "rule-filtered candidates are not scored")
}

func TestRunShortScoresArrayTreatsMissingAsZero(t *testing.T) {
	scorer := &mockScorer{scores: []float64{0.8}}
	s := NewSentinel(scorer, types.SentinelConfig{RelevanceThreshold: 0.6}, nil)

	out := s.Run(context.Background(), candidates("a", "b"), profile.Profile{}, today)
	require.Len(t, out.Passed, 1)
	assert.Equal(t, "a", out.Passed[0].Title)
	assert.Equal(t, 1, out.FilteredCount)
}

func TestRunScorerFailureDegradesToPassThrough(t *testing.T) {
	scorer := &mockScorer{err: fmt.Errorf("oracle down")}
	var log bytes.Buffer
	s := NewSentinel(scorer, types.SentinelConfig{RelevanceThreshold: 0.6}, &log)

	out := s.Run(context.Background(), candidates("a", "b"), profile.Profile{}, today)
	require.Len(t, out.Passed, 2)
	for _, c := range out.Passed {
		assert.Equal(t, 1.0, c.RelevanceScore)
	}
	assert.Contains(t, log.String(), "passing all candidates through")
}

func TestRunEmptyInputShortCircuits(t *testing.T) {
	scorer := &mockScorer{}
	s := NewSentinel(scorer, types.SentinelConfig{}, nil)

	out := s.Run(context.Background(), nil, profile.Profile{}, today)
	assert.Empty(t, out.Passed)
	assert.Zero(t, out.FilteredCount)
	assert.Zero(t, scorer.calls, "no oracle call may be incurred on empty input")
}

func TestRunAllRuleFilteredSkipsOracle(t *testing.T) {
	scorer := &mockScorer{}
	s := NewSentinel(scorer, types.SentinelConfig{}, nil)
	prof := profile.Profile{MutedTopics: []string{"story"}}

	out := s.Run(context.Background(), candidates("story one", "story two"), prof, today)
	assert.Empty(t, out.Passed)
	assert.Equal(t, 2, out.FilteredCount)
	assert.Zero(t, scorer.calls)
}
