// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package editor

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/curation-engine/internal/genai"
	"github.com/pdiddy/curation-engine/pkg/types"
)

// promptTextChars caps per-cluster text inside the batched prompt.
const promptTextChars = 1500

// GatewaySynthesizer drafts all stories in one batched gateway call.
type GatewaySynthesizer struct {
	Gateway *genai.Gateway
}

type synthesizeResponse struct {
	Stories []Draft `json:"stories"`
}

// Synthesize sends every cluster's analysis to the gateway and decodes the
// batch of drafts.
func (g *GatewaySynthesizer) Synthesize(ctx context.Context, analyses []types.ClusterAnalysis) ([]Draft, error) {
	var resp synthesizeResponse
	if err := g.Gateway.GenerateInto(ctx, buildSynthesizePrompt(analyses), genai.Options{}, &resp); err != nil {
		return nil, fmt.Errorf("synthesizing stories: %w", err)
	}
	return resp.Stories, nil
}

func buildSynthesizePrompt(analyses []types.ClusterAnalysis) string {
	var sb strings.Builder
	sb.WriteString("You are the editor of a technical news digest. Write one story per cluster below.\n\n")
	for _, a := range analyses {
		fmt.Fprintf(&sb, "[CLUSTER id=%q label=%q]\n", a.ClusterID, a.Label)
		if len(a.KeyFacts) > 0 {
			fmt.Fprintf(&sb, "Key facts: %s\n", strings.Join(a.KeyFacts, "; "))
		}
		text := truncateText(a.ScrapedText, promptTextChars)
		fmt.Fprintf(&sb, "%s\n[/CLUSTER]\n\n", text)
	}
	fmt.Fprintf(&sb, `For EACH cluster, return a JSON object:
{
  "stories": [
    {
      "cluster_id": "the cluster id",
      "headline": "concise headline",
      "core_fact": "the single most important fact",
      "summary": "2-3 sentence summary",
      "metrics": {"breaking": 7, "importance": 8, "snr": 6}
    }
  ]
}

- breaking: 1-10, time sensitivity (10 = happening right now)
- importance: 1-10, global significance
- snr: 1-10, signal-to-noise (10 = pure substance)

Return valid JSON with exactly %d stories, one per cluster.`, len(analyses))
	return sb.String()
}

// truncateText caps text at max bytes without splitting a UTF-8 sequence.
func truncateText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
