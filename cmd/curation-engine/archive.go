// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curation-engine/internal/knowledge"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "List archived cluster analyses",
	Long: `Archive lists recently analyzed clusters from the knowledge database.
Pass --facts with a cluster ID and --date to print that analysis' key facts.`,
	RunE: runArchive,
}

func runArchive(cmd *cobra.Command, args []string) error {
	store, err := knowledge.NewStore(pipelineConfig().Knowledge)
	if err != nil {
		return err
	}
	defer store.Close()

	factsID, _ := cmd.Flags().GetString("facts")
	if factsID != "" {
		date, _ := cmd.Flags().GetString("date")
		if date == "" {
			return fmt.Errorf("--facts requires --date (YYYY-MM-DD)")
		}
		facts, err := store.Facts(factsID, date)
		if err != nil {
			return err
		}
		if len(facts) == 0 {
			fmt.Println("No facts archived for that cluster and date.")
			return nil
		}
		for i, f := range facts {
			fmt.Printf("%d. %s\n", i+1, f)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.RecentClusters(limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("Archive is empty.")
		return nil
	}

	fmt.Printf("%-10s  %-18s  %-5s  %-8s  %s\n", "Date", "Cluster", "Depth", "Verified", "Label")
	for _, r := range records {
		label := r.Label
		if len(label) > 50 {
			label = label[:47] + "..."
		}
		fmt.Printf("%-10s  %-18s  %-5d  %-8t  %s\n",
			r.RunDate, r.ClusterID, r.KnowledgeDepth, r.ClaimsVerified, label)
	}
	fmt.Printf("\n%d records\n", len(records))
	return nil
}

func init() {
	archiveCmd.Flags().Int("limit", 20, "maximum number of records to list")
	archiveCmd.Flags().String("facts", "", "print key facts for a cluster ID (requires --date)")
	archiveCmd.Flags().String("date", "", "run date for --facts (YYYY-MM-DD)")

	rootCmd.AddCommand(archiveCmd)
}
