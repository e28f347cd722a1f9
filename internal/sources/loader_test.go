package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gyeh/sutcheck/internal/model"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV_TurkishHeaders(t *testing.T) {
	path := writeCSV(t, "İŞLEM KODU,İŞLEM ADI,AÇIKLAMA,İŞLEM PUANI\n"+
		"520.010,Muayene,Yılda bir kez,\"1.234,56\"\n")

	recs, prov, err := LoadCSV(path, model.SourceEK2B)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	r := recs[0]
	if r.Code != "520010" {
		t.Errorf("code = %q, want 520010", r.Code)
	}
	if r.Name != "Muayene" || r.Description != "Yılda bir kez" {
		t.Errorf("name/description = %q/%q", r.Name, r.Description)
	}
	if r.Points == nil || *r.Points != 1234.56 {
		t.Errorf("points = %v, want 1234.56", r.Points)
	}
	if r.Source != model.SourceEK2B {
		t.Errorf("source = %s", r.Source)
	}
	if prov.RowCount != 1 || prov.SHA256 == "" {
		t.Errorf("provenance = %+v", prov)
	}
}

func TestLoadCSV_HeaderOnlyRowsKept(t *testing.T) {
	path := writeCSV(t, "kod,ad,aciklama\n"+
		",DİŞ TEDAVİLERİ,\n"+
		"401.170,Diş çekimi,\n")

	recs, _, err := LoadCSV(path, model.SourceGIL)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if !recs[0].IsHeaderOnly() {
		t.Errorf("first record not header-only: %+v", recs[0])
	}
	if recs[1].IsHeaderOnly() {
		t.Errorf("second record wrongly header-only: %+v", recs[1])
	}
}

func TestLoadCSV_MissingCodeColumn(t *testing.T) {
	path := writeCSV(t, "aciklama,puan\nfoo,1\n")
	if _, _, err := LoadCSV(path, model.SourceEK2C); err == nil {
		t.Fatal("expected error for missing code/name columns")
	}
}

func TestParseNumber_Formats(t *testing.T) {
	if v := parseNumber("1.234,56"); v == nil || *v != 1234.56 {
		t.Errorf("Turkish format: %v", v)
	}
	if v := parseNumber("1234.56"); v == nil || *v != 1234.56 {
		t.Errorf("English format: %v", v)
	}
	if v := parseNumber(""); v != nil {
		t.Errorf("empty: %v", v)
	}
	if v := parseNumber("n/a"); v != nil {
		t.Errorf("garbage: %v", v)
	}
}
