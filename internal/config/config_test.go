package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFromFile_FillsUnsetValues(t *testing.T) {
	path := writeFile(t, "sutcheck.yaml", "chunk_size: 1000\noracle_model: claude-sonnet-4-5\nlog_format: json\n")

	var cfg Config
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want 1000", cfg.ChunkSize)
	}
	if cfg.OracleModel != "claude-sonnet-4-5" {
		t.Errorf("OracleModel = %q", cfg.OracleModel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
}

func TestLoadFromFile_FlagsTakePriority(t *testing.T) {
	path := writeFile(t, "sutcheck.yaml", "chunk_size: 1000\nlog_format: json\n")

	cfg := Config{ChunkSize: 500, LogFormat: "text"}
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.ChunkSize != 500 {
		t.Errorf("ChunkSize = %d, want flag value 500", cfg.ChunkSize)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want flag value text", cfg.LogFormat)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var cfg Config
	if err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFromFile_BadYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "chunk_size: [not an int\n")
	var cfg Config
	if err := cfg.LoadFromFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateExtract(t *testing.T) {
	ek2b := writeFile(t, "ek2b.csv", "İŞLEM KODU;İŞLEM ADI\n")

	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"one source ok", Config{EK2BPath: ek2b}, false},
		{"no sources", Config{}, true},
		{"missing source file", Config{EK2BPath: filepath.Join(t.TempDir(), "nope.csv")}, true},
		{"oracle without key", Config{EK2BPath: ek2b, OracleEnabled: true}, true},
		{"oracle with key", Config{EK2BPath: ek2b, OracleEnabled: true, OracleAPIKey: "sk-test"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.ValidateExtract()
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateExtract() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateAnalyze(t *testing.T) {
	billing := writeFile(t, "billing.parquet", "stub")

	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{BillingPath: billing, InstitutionTier: 2, SnapshotDir: "/tmp/s"}, false},
		{"no billing", Config{InstitutionTier: 2, SnapshotDir: "/tmp/s"}, true},
		{"tier zero", Config{BillingPath: billing, SnapshotDir: "/tmp/s"}, true},
		{"tier four", Config{BillingPath: billing, InstitutionTier: 4, SnapshotDir: "/tmp/s"}, true},
		{"no store", Config{BillingPath: billing, InstitutionTier: 2}, true},
		{"dsn as store", Config{BillingPath: billing, InstitutionTier: 2, DSN: "postgres://x"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.ValidateAnalyze()
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateAnalyze() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateWithDSN(t *testing.T) {
	if err := (&Config{}).ValidateWithDSN(); err == nil {
		t.Error("expected error without DSN")
	}
	if err := (&Config{DSN: "postgres://x"}).ValidateWithDSN(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
