// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyst enriches surviving clusters: it scrapes each cluster's
// representative coverage and assesses all clusters in one batched oracle
// call.
package analyst

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/curation-engine/pkg/types"
)

// maxSnippetChars caps the snippet fallback when every member URL failed
// to scrape.
const maxSnippetChars = 500

// TextFetcher downloads one URL's article text. The goquery Scraper is the
// bundled implementation; tests supply a stub.
type TextFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ClusterText is the scraped input handed to the assessment oracle.
type ClusterText struct {
	ClusterID string
	Label     string
	Text      string
}

// Verdict is the oracle's assessment of one cluster.
type Verdict struct {
	ClusterID      string   `json:"cluster_id"`
	KnowledgeDepth int      `json:"knowledge_depth"`
	KeyFacts       []string `json:"key_facts"`
	ClaimsVerified bool     `json:"claims_verified"`
}

// Oracle assesses all clusters in one batch. Verdicts for unknown cluster
// IDs are ignored; clusters without a verdict default to depth 1.
type Oracle interface {
	Assess(ctx context.Context, clusters []ClusterText) ([]Verdict, error)
}

// Analyst is the enrichment stage.
type Analyst struct {
	fetcher TextFetcher
	oracle  Oracle
	w       io.Writer
}

// NewAnalyst builds the enrichment stage. Progress is written to w.
func NewAnalyst(fetcher TextFetcher, oracle Oracle, w io.Writer) *Analyst {
	if w == nil {
		w = io.Discard
	}
	return &Analyst{fetcher: fetcher, oracle: oracle, w: w}
}

// Run scrapes every cluster, then assesses all of them in one oracle call.
// An oracle failure degrades every analysis to defaults instead of halting
// the run.
func (a *Analyst) Run(ctx context.Context, clusters []types.EventCluster) []types.ClusterAnalysis {
	if len(clusters) == 0 {
		return nil
	}

	texts := make([]ClusterText, len(clusters))
	scrapeFailed := make([]bool, len(clusters))
	for i, c := range clusters {
		text, failed := a.scrapeCluster(ctx, c)
		texts[i] = ClusterText{ClusterID: c.ClusterID, Label: c.Label, Text: text}
		scrapeFailed[i] = failed
	}
	fmt.Fprintf(a.w, "analyst: scraped %d clusters\n", len(texts))

	verdictByID := make(map[string]Verdict)
	verdicts, err := a.oracle.Assess(ctx, texts)
	if err != nil {
		fmt.Fprintf(a.w, "warning: batch analysis failed, using defaults: %v\n", err)
	} else {
		for _, v := range verdicts {
			verdictByID[v.ClusterID] = v
		}
	}

	analyses := make([]types.ClusterAnalysis, len(clusters))
	for i, c := range clusters {
		analysis := types.ClusterAnalysis{
			ClusterID:      c.ClusterID,
			Label:          c.Label,
			BestURL:        c.BestURL,
			ScrapedText:    texts[i].Text,
			KnowledgeDepth: 1,
			ScrapeFailed:   scrapeFailed[i],
		}
		if v, ok := verdictByID[c.ClusterID]; ok {
			analysis.KnowledgeDepth = clampDepth(v.KnowledgeDepth)
			analysis.KeyFacts = v.KeyFacts
			analysis.ClaimsVerified = v.ClaimsVerified
		}
		analyses[i] = analysis
	}

	fmt.Fprintf(a.w, "analyst: analyzed %d clusters in one call\n", len(analyses))
	return analyses
}

// scrapeCluster tries the representative URL, then the other members, then
// falls back to joined snippets. The bool reports the snippet fallback.
func (a *Analyst) scrapeCluster(ctx context.Context, c types.EventCluster) (string, bool) {
	if c.BestURL != "" {
		if text, err := a.fetcher.Fetch(ctx, c.BestURL); err == nil {
			return text, false
		}
	}
	for _, member := range c.Candidates {
		if member.URL == "" || member.URL == c.BestURL {
			continue
		}
		if text, err := a.fetcher.Fetch(ctx, member.URL); err == nil {
			return text, false
		}
	}

	var snippets []string
	for _, member := range c.Candidates {
		if member.Snippet != "" {
			snippets = append(snippets, member.Snippet)
		}
	}
	return truncateText(strings.Join(snippets, " "), maxSnippetChars), true
}

// truncateText caps text at max bytes without splitting a UTF-8 sequence:
// the cut backs up to the nearest rune boundary.
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

func clampDepth(depth int) int {
	if depth < 1 {
		return 1
	}
	if depth > 10 {
		return 10
	}
	return depth
}
