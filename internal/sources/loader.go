package sources

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gyeh/sutcheck/internal/model"
	"github.com/gyeh/sutcheck/internal/normalize"
)

// Provenance records where a source record set came from.
type Provenance struct {
	Source   model.SourceKind `json:"source"`
	FileName string           `json:"file_name"`
	RowCount int              `json:"row_count"`
	SHA256   string           `json:"sha256,omitempty"`
}

// columnAliases maps accepted header names (Turkish or English, folded) to
// canonical record fields.
var columnAliases = map[string]string{
	"kod":          "code",
	"islem kodu":   "code",
	"code":         "code",
	"ad":           "name",
	"adi":          "name",
	"islem adi":    "name",
	"name":         "name",
	"aciklama":     "description",
	"description":  "description",
	"puan":         "points",
	"islem puani":  "points",
	"points":       "points",
	"fiyat":        "price",
	"ucret":        "price",
	"price":        "price",
	"grup":         "group",
	"grup adi":     "group",
	"group":        "group",
	"baslik":       "header",
	"bolum":        "header",
	"header":       "header",
}

// LoadCSV reads one regulatory annex delivered as a canonical CSV record set
// of {code, name, description, points, price, group, header} columns.
// Header-only rows (empty code, non-empty name) are kept: the rule master
// builder folds them into following rows as inherited section context.
func LoadCSV(path string, kind model.SourceKind) ([]model.SourceRecord, Provenance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Provenance{}, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, Provenance{}, fmt.Errorf("read header: %w", err)
	}
	fields := make(map[int]string, len(header))
	for i, h := range header {
		if canon, ok := columnAliases[normalize.Fold(h)]; ok {
			fields[i] = canon
		}
	}
	if !hasField(fields, "code") || !hasField(fields, "name") {
		return nil, Provenance{}, fmt.Errorf("%s: csv has no code/name columns", filepath.Base(path))
	}

	var records []model.SourceRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Provenance{}, fmt.Errorf("read row: %w", err)
		}

		rec := model.SourceRecord{Source: kind}
		for i, val := range row {
			val = strings.TrimSpace(val)
			switch fields[i] {
			case "code":
				rec.Code = normalize.Code(val)
			case "name":
				rec.Name = val
			case "description":
				rec.Description = val
			case "points":
				rec.Points = parseNumber(val)
			case "price":
				rec.Price = parseNumber(val)
			case "group":
				rec.GroupLabel = val
			case "header":
				rec.SectionHeader = val
			}
		}
		if rec.Code == "" && rec.Name == "" {
			continue
		}
		records = append(records, rec)
	}

	prov := Provenance{Source: kind, FileName: filepath.Base(path), RowCount: len(records)}
	if sha, err := normalize.FileHash(path); err == nil {
		prov.SHA256 = sha
	}
	return records, prov, nil
}

// parseNumber reads a Turkish- or English-formatted decimal ("1.234,56" or
// "1234.56"). Returns nil when empty or unparseable.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func hasField(fields map[int]string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
