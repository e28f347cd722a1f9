package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a sutcheck run.
type Config struct {
	DSN         string
	SnapshotDir string
	LogFormat   string // "text" or "json"

	// Regulatory source files (extract).
	EK2BPath  string
	EK2CPath  string
	EK2CCPath string
	GILPath   string
	SUTPath   string

	// Oracle extraction (opt-in second rule source).
	OracleEnabled bool
	OracleAPIKey  string
	OracleModel   string `yaml:"oracle_model"`

	// Analysis inputs.
	BillingPath     string
	InstitutionTier int
	OutPath         string
	ChunkSize       int `yaml:"chunk_size"`
	ShowProgress    bool
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	ChunkSize   int    `yaml:"chunk_size"`
	OracleModel string `yaml:"oracle_model"`
	LogFormat   string `yaml:"log_format"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Flag values already set take priority over the file.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = yc.ChunkSize
	}
	if c.OracleModel == "" {
		c.OracleModel = yc.OracleModel
	}
	if c.LogFormat == "" && yc.LogFormat != "" {
		c.LogFormat = yc.LogFormat
	}
	return nil
}

// HasSnapshotStore reports whether either a file or Postgres store target
// was configured.
func (c *Config) HasSnapshotStore() bool {
	return c.SnapshotDir != "" || c.DSN != ""
}

// ValidateExtract checks the inputs of an extraction run.
func (c *Config) ValidateExtract() error {
	paths := []string{c.EK2BPath, c.EK2CPath, c.EK2CCPath, c.GILPath}
	any := false
	for _, p := range paths {
		if p == "" {
			continue
		}
		any = true
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("source file not accessible: %w", err)
		}
	}
	if !any {
		return fmt.Errorf("at least one of --ek2b, --ek2c, --ek2cc, --gil is required")
	}
	if c.SUTPath != "" {
		if _, err := os.Stat(c.SUTPath); err != nil {
			return fmt.Errorf("legislation file not accessible: %w", err)
		}
	}
	if c.OracleEnabled && c.OracleAPIKey == "" {
		return fmt.Errorf("--oracle requires ANTHROPIC_API_KEY")
	}
	return nil
}

// ValidateAnalyze checks the inputs of an analysis run.
func (c *Config) ValidateAnalyze() error {
	if c.BillingPath == "" {
		return fmt.Errorf("--billing is required")
	}
	if _, err := os.Stat(c.BillingPath); err != nil {
		return fmt.Errorf("billing file not accessible: %w", err)
	}
	if c.InstitutionTier < 1 || c.InstitutionTier > 3 {
		return fmt.Errorf("--tier must be 1, 2 or 3")
	}
	if !c.HasSnapshotStore() {
		return fmt.Errorf("--snapshot-dir or --dsn is required")
	}
	return nil
}

// ValidateWithDSN checks that a Postgres DSN is configured.
func (c *Config) ValidateWithDSN() error {
	if c.DSN == "" {
		return fmt.Errorf("--dsn or SUTCHECK_DB_URL is required")
	}
	return nil
}
