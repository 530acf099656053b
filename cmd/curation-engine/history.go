// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/curation-engine/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or prune the cluster history ledger",
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List clusters in the history ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := history.NewStore(pipelineConfig().History)
		if err := store.Load(); err != nil {
			return err
		}

		entries := store.Entries()
		if len(entries) == 0 {
			fmt.Println("History is empty.")
			return nil
		}

		fmt.Printf("%-18s  %-10s  %-10s  %-5s  %s\n", "Cluster", "First", "Last", "URLs", "Label")
		for _, e := range entries {
			label := e.Label
			if len(label) > 60 {
				label = label[:57] + "..."
			}
			fmt.Printf("%-18s  %-10s  %-10s  %-5d  %s\n",
				e.ClusterID, e.FirstSeen, e.LastSeen, len(e.URLs), label)
		}
		fmt.Printf("\n%d entries (last updated %s)\n", len(entries), store.LastUpdated())
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove entries older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := history.NewStore(pipelineConfig().History)
		if err := store.Load(); err != nil {
			return err
		}

		today := time.Now()
		removed := store.ApplyRetention(today)
		if err := store.Save(today); err != nil {
			return err
		}
		fmt.Printf("Pruned %d entries, %d remain.\n", removed, len(store.Entries()))
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)

	rootCmd.AddCommand(historyCmd)
}
