package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/sutcheck/internal/exitcode"
	"github.com/gyeh/sutcheck/internal/extraction"
	"github.com/gyeh/sutcheck/internal/logging"
	"github.com/gyeh/sutcheck/internal/oracle"
	"github.com/gyeh/sutcheck/internal/progress"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract billing rules from SUT source files into a snapshot",
	RunE:  runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.StringVar(&cfg.EK2BPath, "ek2b", "", "Path to EK-2B CSV (fee-for-service list)")
	f.StringVar(&cfg.EK2CPath, "ek2c", "", "Path to EK-2C CSV (diagnosis-based list)")
	f.StringVar(&cfg.EK2CCPath, "ek2cc", "", "Path to EK-2Ç CSV (dental list)")
	f.StringVar(&cfg.GILPath, "gil", "", "Path to GIL CSV (general procedures list)")
	f.StringVar(&cfg.SUTPath, "sut", "", "Path to SUT legislation text file")
	f.BoolVar(&cfg.OracleEnabled, "oracle", false, "Enable LLM-assisted extraction (requires ANTHROPIC_API_KEY)")
	f.StringVar(&cfg.OracleModel, "oracle-model", "", "Override the oracle model name")
	f.BoolVar(&cfg.ShowProgress, "progress", false, "Show a progress bar")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := loadConfigFile(); err != nil {
		log.Error().Err(err).Msg("config file failed to load")
		os.Exit(exitcode.UsageError)
	}
	cfg.OracleAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	if err := cfg.ValidateExtract(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if !cfg.HasSnapshotStore() {
		log.Error().Msg("--snapshot-dir or --dsn is required")
		os.Exit(exitcode.UsageError)
	}

	store, cleanup, err := openStore(ctx, log)
	if err != nil {
		os.Exit(exitcode.DBConnError)
	}
	defer cleanup()

	var ext oracle.Extractor
	if cfg.OracleEnabled {
		ext = oracle.NewClient(cfg.OracleAPIKey, cfg.OracleModel)
	}

	var rep progress.Reporter = progress.Log{Logger: log}
	var bar *progress.Bar
	if cfg.ShowProgress {
		bar = progress.NewBar()
		rep = bar
	}

	_, summary, err := extraction.Run(ctx, store, log, &cfg, ext, rep)
	if bar != nil {
		bar.Wait()
	}
	if err != nil {
		if errors.Is(err, oracle.ErrAuthFailed) {
			log.Error().Err(err).Msg("oracle authentication failed")
			os.Exit(exitcode.OracleAuthError)
		}
		var pe *extraction.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("extraction failed")
			if pe.Phase == "load" {
				os.Exit(exitcode.ValidationError)
			}
			os.Exit(exitcode.ExtractError)
		}
		log.Error().Err(err).Msg("extraction failed")
		os.Exit(exitcode.ExtractError)
	}

	fmt.Printf("Extraction complete: %d entries, %d rules, %d/%d cross-refs resolved (%.1fs)\n",
		summary.EntryCount, summary.RuleCount,
		summary.CrossRefsResolved, summary.CrossRefsResolved+summary.CrossRefsUnresolved,
		summary.DurationTotal.Seconds())
	if summary.OracleFailures > 0 {
		fmt.Printf("Oracle: %d of %d batches failed and were skipped\n", summary.OracleFailures, summary.OracleBatches)
	}
	return nil
}
