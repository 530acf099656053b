// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/curation-engine/internal/genai"
	"github.com/pdiddy/curation-engine/pkg/types"
)

// GatewayGrouper asks the generation gateway to group candidates by
// underlying event.
type GatewayGrouper struct {
	Gateway *genai.Gateway
}

// groupResponse is the oracle's wire shape.
type groupResponse struct {
	Clusters []Group `json:"clusters"`
}

// Group sends the ordered candidate list to the gateway and decodes the
// suggested groupings.
func (g *GatewayGrouper) Group(ctx context.Context, candidates []types.FilteredCandidate) ([]Group, error) {
	var resp groupResponse
	if err := g.Gateway.GenerateInto(ctx, buildGroupPrompt(candidates), genai.Options{}, &resp); err != nil {
		return nil, fmt.Errorf("grouping candidates: %w", err)
	}
	return resp.Clusters, nil
}

func buildGroupPrompt(candidates []types.FilteredCandidate) string {
	var sb strings.Builder
	sb.WriteString("You are a news clustering engine. Group these candidates by the underlying event they describe. Candidates covering the same event belong in the same cluster.\n\nCandidates:\n")
	for i, c := range candidates {
		fmt.Fprintf(&sb, "%d. title=%q url=%q snippet=%q\n", i, c.Title, c.URL, c.Snippet)
	}
	sb.WriteString(`
Return a JSON object:
{
  "clusters": [
    {"label": "short descriptive label for the event", "candidate_indices": [0, 3, 5], "best_index": 0}
  ]
}

- Each candidate index should appear in exactly one cluster.
- best_index is the candidate with the most comprehensive coverage.
- Return valid JSON only.`)
	return sb.String()
}
