// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyst

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/curation-engine/internal/genai"
)

// promptTextChars caps per-cluster text inside the batched prompt.
const promptTextChars = 2000

// GatewayOracle assesses clusters in one batched gateway call.
type GatewayOracle struct {
	Gateway *genai.Gateway
}

type assessResponse struct {
	Analyses []Verdict `json:"analyses"`
}

// Assess sends every cluster's scraped text to the gateway and decodes the
// batch of verdicts.
func (g *GatewayOracle) Assess(ctx context.Context, clusters []ClusterText) ([]Verdict, error) {
	var resp assessResponse
	if err := g.Gateway.GenerateInto(ctx, buildAssessPrompt(clusters), genai.Options{}, &resp); err != nil {
		return nil, fmt.Errorf("assessing clusters: %w", err)
	}
	return resp.Analyses, nil
}

func buildAssessPrompt(clusters []ClusterText) string {
	var sb strings.Builder
	sb.WriteString("You are a technical news analyst. Analyze each news cluster below.\n\n")
	for _, c := range clusters {
		text := c.Text
		if text == "" {
			text = "No content available"
		} else {
			text = truncateText(text, promptTextChars)
		}
		fmt.Fprintf(&sb, "[CLUSTER id=%q label=%q]\n%s\n[/CLUSTER]\n\n", c.ClusterID, c.Label, text)
	}
	fmt.Fprintf(&sb, `For EACH cluster, assess and return a JSON object:
{
  "analyses": [
    {"cluster_id": "the cluster id", "knowledge_depth": 7, "key_facts": ["fact 1", "fact 2"], "claims_verified": true}
  ]
}

- knowledge_depth: 1-10, how much substantive new information
- key_facts: 3-5 most important factual claims
- claims_verified: true if facts are internally consistent

Return valid JSON with exactly %d analyses, one per cluster.`, len(clusters))
	return sb.String()
}
