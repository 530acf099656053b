// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package editor turns analyzed clusters into the final ranked story list.
// A synthesis oracle drafts headline, core fact, summary, and metrics per
// cluster; the editor then applies the publish thresholds and ranks what
// survives.
package editor

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/curation-engine/pkg/types"
)

const (
	defaultSNRThreshold        = 5
	defaultBreakingThreshold   = 8
	defaultImportanceThreshold = 8
)

// Draft is one synthesized story before the publish cut.
type Draft struct {
	ClusterID string             `json:"cluster_id"`
	Headline  string             `json:"headline"`
	CoreFact  string             `json:"core_fact"`
	Summary   string             `json:"summary"`
	Metrics   types.StoryMetrics `json:"metrics"`
}

// Synthesizer drafts stories for a batch of analyzed clusters.
type Synthesizer interface {
	Synthesize(ctx context.Context, analyses []types.ClusterAnalysis) ([]Draft, error)
}

// Editor scores drafts against the publish thresholds and ranks survivors.
type Editor struct {
	synth Synthesizer
	cfg   types.EditorConfig
	w     io.Writer
}

// NewEditor builds an editor, applying threshold defaults for unset fields.
func NewEditor(synth Synthesizer, cfg types.EditorConfig, w io.Writer) *Editor {
	if cfg.SNRThreshold <= 0 {
		cfg.SNRThreshold = defaultSNRThreshold
	}
	if cfg.BreakingThreshold <= 0 {
		cfg.BreakingThreshold = defaultBreakingThreshold
	}
	if cfg.ImportanceThreshold <= 0 {
		cfg.ImportanceThreshold = defaultImportanceThreshold
	}
	if w == nil {
		w = io.Discard
	}
	return &Editor{synth: synth, cfg: cfg, w: w}
}

// Run synthesizes drafts for the analyses, keeps those whose SNR meets the
// threshold and whose breaking or importance score does too, and returns
// them sorted by breaking then importance, both descending. A synthesis
// failure yields an empty story list so the run can still publish.
func (e *Editor) Run(ctx context.Context, analyses []types.ClusterAnalysis) []types.DigestStory {
	if len(analyses) == 0 {
		return nil
	}

	drafts, err := e.synth.Synthesize(ctx, analyses)
	if err != nil {
		fmt.Fprintf(e.w, "  warning: story synthesis failed, publishing empty digest: %v\n", err)
		return nil
	}

	byID := make(map[string]types.ClusterAnalysis, len(analyses))
	for _, a := range analyses {
		byID[a.ClusterID] = a
	}

	var stories []types.DigestStory
	for _, d := range drafts {
		a, ok := byID[d.ClusterID]
		if !ok {
			fmt.Fprintf(e.w, "  warning: draft for unknown cluster %s dropped\n", d.ClusterID)
			continue
		}
		if !e.publishable(d.Metrics) {
			continue
		}
		stories = append(stories, types.DigestStory{
			ClusterID: d.ClusterID,
			Headline:  d.Headline,
			CoreFact:  d.CoreFact,
			Summary:   d.Summary,
			Sources:   []string{a.BestURL},
			Metrics:   d.Metrics,
			Label:     a.Label,
		})
	}

	sort.SliceStable(stories, func(i, j int) bool {
		if stories[i].Metrics.Breaking != stories[j].Metrics.Breaking {
			return stories[i].Metrics.Breaking > stories[j].Metrics.Breaking
		}
		return stories[i].Metrics.Importance > stories[j].Metrics.Importance
	})
	return stories
}

func (e *Editor) publishable(m types.StoryMetrics) bool {
	if m.SNR < e.cfg.SNRThreshold {
		return false
	}
	return m.Breaking >= e.cfg.BreakingThreshold || m.Importance >= e.cfg.ImportanceThreshold
}
