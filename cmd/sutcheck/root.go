package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/sutcheck/internal/config"
)

var cfg config.Config

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sutcheck",
	Short: "SUT kural çıkarımı ve fatura uyum denetimi",
	Long:  "Extracts billing rules from SUT annex lists and legislation text, then audits hospital billing exports against the extracted rule base.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("SUTCHECK_DB_URL"), "Postgres connection string (or set SUTCHECK_DB_URL)")
	pf.StringVar(&cfg.SnapshotDir, "snapshot-dir", "", "Directory for file-based rule snapshots")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfgFile, "config", "", "Optional YAML config file")
}

func loadConfigFile() error {
	if cfgFile == "" {
		return nil
	}
	return cfg.LoadFromFile(cfgFile)
}
