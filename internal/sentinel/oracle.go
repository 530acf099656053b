// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentinel

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/curation-engine/internal/genai"
	"github.com/pdiddy/curation-engine/pkg/types"
)

// GatewayScorer scores candidate relevance in one batched gateway call.
type GatewayScorer struct {
	Gateway *genai.Gateway
}

type scoresResponse struct {
	Scores []float64 `json:"scores"`
}

// Score asks the gateway to rate every candidate against the interests.
func (g *GatewayScorer) Score(ctx context.Context, candidates []types.Candidate, interests []string) ([]float64, error) {
	var resp scoresResponse
	if err := g.Gateway.GenerateInto(ctx, buildScorePrompt(candidates, interests), genai.Options{}, &resp); err != nil {
		return nil, fmt.Errorf("scoring candidates: %w", err)
	}
	return resp.Scores, nil
}

func buildScorePrompt(candidates []types.Candidate, interests []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a news relevance filter. The user is interested in: %s\n\n", strings.Join(interests, ", "))
	sb.WriteString("Rate each candidate's relevance from 0.0 to 1.0 based on how well it matches these interests.\n\nCandidates:\n")
	for i, c := range candidates {
		fmt.Fprintf(&sb, "%d. [%s] — %s\n", i, c.Title, c.Snippet)
	}
	fmt.Fprintf(&sb, `
Return a JSON object:
{
  "scores": [0.85, 0.3, ...]
}

The scores array must have exactly %d entries, one per candidate, in order.
Return valid JSON only.`, len(candidates))
	return sb.String()
}
