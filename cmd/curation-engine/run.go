// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curation-engine/internal/analyst"
	"github.com/pdiddy/curation-engine/internal/cluster"
	"github.com/pdiddy/curation-engine/internal/editor"
	"github.com/pdiddy/curation-engine/internal/genai"
	"github.com/pdiddy/curation-engine/internal/history"
	"github.com/pdiddy/curation-engine/internal/knowledge"
	"github.com/pdiddy/curation-engine/internal/pipeline"
	"github.com/pdiddy/curation-engine/internal/profile"
	"github.com/pdiddy/curation-engine/internal/publish"
	"github.com/pdiddy/curation-engine/internal/scout"
	"github.com/pdiddy/curation-engine/internal/sentinel"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the full curation pipeline once",
	Long: `Run executes one pipeline pass: discover candidates for every profile
interest, filter them for relevance, cluster and dedup against recent
history, analyze the surviving clusters, and publish the ranked digest.`,
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if cfg.GenAI.APIKey == "" {
		return fmt.Errorf("no API key: set genai.api_key, CURATION_ENGINE_GENAI_API_KEY, or .secrets/gemini-api-key")
	}

	today := time.Now()
	if dateFlag, _ := cmd.Flags().GetString("date"); dateFlag != "" {
		t, err := time.Parse("2006-01-02", dateFlag)
		if err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", dateFlag)
		}
		today = t
	}

	prof, err := profile.Load(cfg.Profile.Path)
	if err != nil {
		return err
	}
	if len(prof.Interests) == 0 {
		fmt.Fprintf(os.Stderr, "warning: profile %s has no interests; the digest will be empty\n", cfg.Profile.Path)
	}

	gateway := genai.NewGateway(genai.NewHTTPBackend(cfg.GenAI), cfg.GenAI, os.Stderr)

	p := &pipeline.Pipeline{
		Ledger: history.NewStore(cfg.History),
		Scout: scout.NewScout([]scout.Source{
			&scout.GroundedSource{Gateway: gateway, Languages: cfg.Scout.Languages},
		}, cfg.Scout, os.Stdout),
		Sentinel:  sentinel.NewSentinel(&sentinel.GatewayScorer{Gateway: gateway}, cfg.Sentinel, os.Stdout),
		Cluster:   cluster.NewEngine(&cluster.GatewayGrouper{Gateway: gateway}, os.Stdout),
		Analyst:   analyst.NewAnalyst(analyst.NewScraper(nil, os.Stdout), &analyst.GatewayOracle{Gateway: gateway}, os.Stdout),
		Editor:    editor.NewEditor(&editor.GatewaySynthesizer{Gateway: gateway}, cfg.Editor, os.Stdout),
		Publisher: publish.NewPublisher(cfg.Output),
		Counter:   gateway,
		Progress:  os.Stdout,
	}

	// The archive only records analyses; a broken database degrades the
	// run instead of aborting it.
	if store, err := knowledge.NewStore(cfg.Knowledge); err != nil {
		fmt.Fprintf(os.Stderr, "warning: analysis archive unavailable: %v\n", err)
	} else {
		defer store.Close()
		p.Archiver = store
	}

	digest, err := p.Run(cmd.Context(), prof, today)
	if err != nil {
		return err
	}

	m := digest.Metadata
	fmt.Printf("\nDigest %s: %d stories published\n", digest.Date, m.StoriesPublished)
	fmt.Printf("  discovered %d, after filter %d, clusters %d, after dedup %d, API calls %d\n",
		m.TotalDiscovered, m.AfterFilter, m.ClustersFormed, m.AfterDedup, m.TotalCalls)
	return nil
}

func init() {
	runCmd.Flags().String("date", "", "run date override (YYYY-MM-DD, default today)")

	rootCmd.AddCommand(runCmd)
}
