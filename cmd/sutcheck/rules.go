package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/sutcheck/internal/exitcode"
	"github.com/gyeh/sutcheck/internal/logging"
	"github.com/gyeh/sutcheck/internal/snapshot"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the latest rule snapshot without loading the entry table",
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if !cfg.HasSnapshotStore() {
		log.Error().Msg("--snapshot-dir or --dsn is required")
		os.Exit(exitcode.UsageError)
	}

	store, cleanup, err := openStore(ctx, log)
	if err != nil {
		os.Exit(exitcode.DBConnError)
	}
	defer cleanup()

	meta, err := store.LoadMetadata(ctx)
	if err != nil {
		if errors.Is(err, snapshot.ErrNoSnapshot) {
			fmt.Println("No rule snapshot found.")
			return nil
		}
		log.Error().Err(err).Msg("snapshot metadata load failed")
		os.Exit(exitcode.AnalyzeError)
	}

	fmt.Println("=== sutcheck rules ===")
	fmt.Printf("Version:    %s\n", meta.Version)
	fmt.Printf("Run ID:     %s\n", meta.RunID)
	fmt.Printf("Created:    %s\n", meta.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Entries:    %d\n", meta.Stats.EntryCount)
	fmt.Printf("Rules:      %d\n", meta.Stats.RuleCount)
	fmt.Printf("Cross-refs: %d resolved\n", meta.Stats.ResolvedCrossRefs)
	fmt.Println()
	fmt.Println("Sources:")
	for _, p := range meta.Sources {
		fmt.Printf("  %-6s %6d rows  %s\n", p.Source, p.RowCount, p.FileName)
	}
	return nil
}
