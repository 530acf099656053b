// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package editor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/curation-engine/pkg/types"
)

type mockSynth struct {
	drafts []Draft
	err    error
	calls  int
}

func (m *mockSynth) Synthesize(_ context.Context, _ []types.ClusterAnalysis) ([]Draft, error) {
	m.calls++
	return m.drafts, m.err
}

func testAnalysis(id string) types.ClusterAnalysis {
	return types.ClusterAnalysis{
		ClusterID: id,
		Label:     "label " + id,
		BestURL:   "https://example.com/" + id,
	}
}

func draft(id string, breaking, importance, snr int) Draft {
	return Draft{
		ClusterID: id,
		Headline:  "headline " + id,
		CoreFact:  "fact " + id,
		Summary:   "summary " + id,
		Metrics:   types.StoryMetrics{Breaking: breaking, Importance: importance, SNR: snr},
	}
}

func TestRunThresholds(t *testing.T) {
	cfg := types.EditorConfig{SNRThreshold: 5, BreakingThreshold: 8, ImportanceThreshold: 8}
	tests := []struct {
		name                      string
		breaking, importance, snr int
		want                      bool
	}{
		{"breaking alone passes", 8, 1, 5, true},
		{"importance alone passes", 1, 8, 5, true},
		{"snr below threshold fails", 10, 10, 4, false},
		{"neither score meets threshold", 7, 7, 10, false},
		{"all at threshold passes", 8, 8, 5, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			synth := &mockSynth{drafts: []Draft{draft("c1", tc.breaking, tc.importance, tc.snr)}}
			e := NewEditor(synth, cfg, nil)
			stories := e.Run(context.Background(), []types.ClusterAnalysis{testAnalysis("c1")})
			assert.Equal(t, tc.want, len(stories) == 1)
		})
	}
}

func TestRunSortsByBreakingThenImportance(t *testing.T) {
	synth := &mockSynth{drafts: []Draft{
		draft("c1", 8, 9, 10),
		draft("c2", 9, 1, 10),
		draft("c3", 8, 10, 10),
	}}
	e := NewEditor(synth, types.EditorConfig{SNRThreshold: 5, BreakingThreshold: 8, ImportanceThreshold: 8}, nil)

	stories := e.Run(context.Background(), []types.ClusterAnalysis{
		testAnalysis("c1"), testAnalysis("c2"), testAnalysis("c3"),
	})
	require.Len(t, stories, 3)
	assert.Equal(t, "c2", stories[0].ClusterID)
	assert.Equal(t, "c3", stories[1].ClusterID)
	assert.Equal(t, "c1", stories[2].ClusterID)
}

func TestRunFillsSourcesAndLabel(t *testing.T) {
	synth := &mockSynth{drafts: []Draft{draft("c1", 9, 9, 9)}}
	e := NewEditor(synth, types.EditorConfig{}, nil)

	stories := e.Run(context.Background(), []types.ClusterAnalysis{testAnalysis("c1")})
	require.Len(t, stories, 1)
	assert.Equal(t, []string{"https://example.com/c1"}, stories[0].Sources)
	assert.Equal(t, "label c1", stories[0].Label)
	assert.Equal(t, "headline c1", stories[0].Headline)
}

func TestRunDropsUnknownClusterDrafts(t *testing.T) {
	synth := &mockSynth{drafts: []Draft{draft("ghost", 9, 9, 9)}}
	e := NewEditor(synth, types.EditorConfig{}, nil)

	stories := e.Run(context.Background(), []types.ClusterAnalysis{testAnalysis("c1")})
	assert.Empty(t, stories)
}

func TestRunSynthesisFailureYieldsEmptyList(t *testing.T) {
	synth := &mockSynth{err: fmt.Errorf("synthesis down")}
	e := NewEditor(synth, types.EditorConfig{}, nil)

	stories := e.Run(context.Background(), []types.ClusterAnalysis{testAnalysis("c1")})
	assert.Empty(t, stories)
}

func TestRunEmptyInputShortCircuits(t *testing.T) {
	synth := &mockSynth{}
	e := NewEditor(synth, types.EditorConfig{}, nil)
	assert.Nil(t, e.Run(context.Background(), nil))
	assert.Zero(t, synth.calls)
}

func TestDefaultThresholds(t *testing.T) {
	synth := &mockSynth{drafts: []Draft{
		draft("pass", 8, 1, 5),
		draft("fail", 7, 7, 5),
	}}
	e := NewEditor(synth, types.EditorConfig{}, nil)

	stories := e.Run(context.Background(), []types.ClusterAnalysis{
		testAnalysis("pass"), testAnalysis("fail"),
	})
	require.Len(t, stories, 1)
	assert.Equal(t, "pass", stories[0].ClusterID)
}
