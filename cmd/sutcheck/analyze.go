package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/sutcheck/internal/batch"
	"github.com/gyeh/sutcheck/internal/billingread"
	"github.com/gyeh/sutcheck/internal/evaluate"
	"github.com/gyeh/sutcheck/internal/exitcode"
	"github.com/gyeh/sutcheck/internal/export"
	"github.com/gyeh/sutcheck/internal/logging"
	"github.com/gyeh/sutcheck/internal/model"
	"github.com/gyeh/sutcheck/internal/progress"
	"github.com/gyeh/sutcheck/internal/snapshot"
	"github.com/gyeh/sutcheck/internal/specialty"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Audit a billing Parquet export against the latest rule snapshot",
	RunE:  runAnalyze,
}

var institutionName string

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&cfg.BillingPath, "billing", "", "Path to billing Parquet file (required)")
	f.IntVar(&cfg.InstitutionTier, "tier", 0, "Institution tier: 1, 2 or 3 (required)")
	f.StringVar(&institutionName, "institution", "", "Institution name for the report")
	f.StringVar(&cfg.OutPath, "out", "", "Output CSV path (default: stdout)")
	f.IntVar(&cfg.ChunkSize, "chunk-size", 0, "Rows per evaluation chunk")
	f.BoolVar(&cfg.ShowProgress, "progress", false, "Show a progress bar")
	_ = analyzeCmd.MarkFlagRequired("billing")
	_ = analyzeCmd.MarkFlagRequired("tier")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := loadConfigFile(); err != nil {
		log.Error().Err(err).Msg("config file failed to load")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateAnalyze(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	store, cleanup, err := openStore(ctx, log)
	if err != nil {
		os.Exit(exitcode.DBConnError)
	}
	defer cleanup()

	doc, err := store.LoadLatest(ctx)
	if err != nil {
		if errors.Is(err, snapshot.ErrNoSnapshot) {
			log.Error().Msg("no rule snapshot found; run `sutcheck extract` first")
			os.Exit(exitcode.ValidationError)
		}
		log.Error().Err(err).Msg("snapshot load failed")
		os.Exit(exitcode.AnalyzeError)
	}
	log.Info().Str("run_id", doc.RunID).Time("created_at", doc.CreatedAt).
		Int("entries", doc.Stats.EntryCount).Msg("rule snapshot loaded")

	reader, err := billingread.Open(cfg.BillingPath)
	if err != nil {
		log.Error().Err(err).Msg("billing file failed to open")
		os.Exit(exitcode.ValidationError)
	}
	rows, err := reader.ReadAll()
	reader.Close()
	if err != nil {
		log.Error().Err(err).Msg("billing file failed to read")
		os.Exit(exitcode.AnalyzeError)
	}

	ec := &evaluate.Context{
		Institution: model.InstitutionInfo{Name: institutionName, Tier: cfg.InstitutionTier},
		Matcher:     specialty.NewMatcher(specialty.NewTable()),
	}

	var rep progress.Reporter = progress.Log{Logger: log}
	var bar *progress.Bar
	if cfg.ShowProgress {
		bar = progress.NewBar()
		rep = bar
	}

	out := batch.Run(rows, doc.Entries, ec, batch.Options{ChunkSize: cfg.ChunkSize, Reporter: rep})
	if bar != nil {
		bar.Wait()
	}

	w := os.Stdout
	if cfg.OutPath != "" {
		f, err := os.Create(cfg.OutPath)
		if err != nil {
			log.Error().Err(err).Msg("output file failed to open")
			os.Exit(exitcode.AnalyzeError)
		}
		defer f.Close()
		w = f
	}
	if err := export.WriteCSV(w, rows, out.Results); err != nil {
		log.Error().Err(err).Msg("result export failed")
		os.Exit(exitcode.AnalyzeError)
	}

	printSummary(out.Summary)
	return nil
}

func printSummary(s *model.AnalysisSummary) {
	fmt.Fprintln(os.Stderr, "=== sutcheck analyze ===")
	fmt.Fprintf(os.Stderr, "Rows:          %d (%d matched, %d unmatched)\n", s.TotalRows, s.Matched, s.Unmatched)
	fmt.Fprintf(os.Stderr, "Compliant:     %d\n", s.Compliant)
	fmt.Fprintf(os.Stderr, "Non-compliant: %d\n", s.NonCompliant)
	fmt.Fprintf(os.Stderr, "Needs review:  %d\n", s.NeedsReview)
	fmt.Fprintf(os.Stderr, "Violations:    %d\n", s.TotalViolations)
	for _, kind := range model.AllRuleKinds {
		if n := s.ViolationsByKind[kind]; n > 0 {
			fmt.Fprintf(os.Stderr, "  %-22s %d\n", kind, n)
		}
	}
}
