package extraction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gyeh/sutcheck/internal/config"
	"github.com/gyeh/sutcheck/internal/logging"
	"github.com/gyeh/sutcheck/internal/model"
	"github.com/gyeh/sutcheck/internal/oracle"
	"github.com/gyeh/sutcheck/internal/snapshot"
)

// memStore records the last saved document and can be primed to fail.
type memStore struct {
	saved   *snapshot.Document
	saveErr error
}

func (s *memStore) Save(ctx context.Context, doc *snapshot.Document) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = doc
	return nil
}

func (s *memStore) LoadLatest(ctx context.Context) (*snapshot.Document, error) {
	if s.saved == nil {
		return nil, snapshot.ErrNoSnapshot
	}
	return s.saved, nil
}

func (s *memStore) LoadMetadata(ctx context.Context) (*snapshot.Metadata, error) {
	if s.saved == nil {
		return nil, snapshot.ErrNoSnapshot
	}
	return &snapshot.Metadata{RunID: s.saved.RunID, Stats: s.saved.Stats}, nil
}

type fixedExtractor struct {
	rules map[int]oracle.ItemRules
	calls int
}

func (f *fixedExtractor) ExtractBatch(ctx context.Context, items []oracle.Item) (map[int]oracle.ItemRules, error) {
	f.calls++
	out := make(map[int]oracle.ItemRules)
	for _, it := range items {
		if ir, ok := f.rules[it.LocalIndex]; ok {
			out[it.LocalIndex] = ir
		}
	}
	return out, nil
}

func writeEK2B(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ek2b.csv")
	content := "İŞLEM KODU,İŞLEM ADI,AÇIKLAMA,İŞLEM PUANI\n" +
		"520.010,Muayene,,\"52,20\"\n" +
		"610.120,Koroner anjiyografi,\"Yalnızca 3. basamak sağlık kurumlarında yapılabilir.\",\"450,00\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestRun_LoadBuildSave(t *testing.T) {
	cfg := &config.Config{EK2BPath: writeEK2B(t)}
	store := &memStore{}

	res, summary, err := Run(context.Background(), store, logging.Nop(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(res.Entries))
	}
	e := res.Entries["610120"]
	if e == nil {
		t.Fatal("entry 610120 missing")
	}
	if !e.HasRuleOfKind(model.KindTierRestriction) {
		t.Errorf("tier rule not extracted: %+v", e.Rules)
	}

	if summary.EntryCount != 2 || summary.RuleCount == 0 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.RulesByKind[model.KindTierRestriction] == 0 {
		t.Errorf("RulesByKind = %v", summary.RulesByKind)
	}

	if store.saved == nil {
		t.Fatal("snapshot not saved")
	}
	if store.saved.RunID != summary.RunID {
		t.Errorf("saved RunID = %q, summary RunID = %q", store.saved.RunID, summary.RunID)
	}
	if len(store.saved.Sources) != 1 || store.saved.Sources[0].RowCount != 2 {
		t.Errorf("provenance = %+v", store.saved.Sources)
	}
}

func TestRun_MissingSourceIsLoadPhaseError(t *testing.T) {
	cfg := &config.Config{EK2BPath: filepath.Join(t.TempDir(), "nope.csv")}

	_, _, err := Run(context.Background(), &memStore{}, logging.Nop(), cfg, nil, nil)
	var pe *PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PipelineError", err)
	}
	if pe.Phase != "load" {
		t.Errorf("phase = %q, want load", pe.Phase)
	}
}

func TestRun_OracleRulesMergedByCode(t *testing.T) {
	cfg := &config.Config{EK2BPath: writeEK2B(t)}
	store := &memStore{}
	// Item 0 is the only record carrying a description (610.120).
	ext := &fixedExtractor{rules: map[int]oracle.ItemRules{
		0: {Rules: []model.ParsedRule{{
			Kind:       model.KindFrequencyLimit,
			Params:     model.FrequencyParams{IntervalDays: 30},
			Confidence: 0.9,
			Method:     model.MethodOracle,
		}}},
	}}

	res, summary, err := Run(context.Background(), store, logging.Nop(), cfg, ext, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ext.calls != 1 {
		t.Errorf("extractor calls = %d, want 1", ext.calls)
	}
	if summary.OracleBatches != 1 || summary.OracleFailures != 0 {
		t.Errorf("oracle summary = %+v", summary)
	}

	e := res.Entries["610120"]
	if e == nil {
		t.Fatal("entry 610120 missing")
	}
	found := false
	for _, r := range e.Rules {
		if r.Method == model.MethodOracle && r.Kind == model.KindFrequencyLimit {
			found = true
			if r.OriginSource != model.SourceEK2B {
				t.Errorf("OriginSource = %q, want EK-2B", r.OriginSource)
			}
		}
	}
	if !found {
		t.Errorf("oracle rule not merged: %+v", e.Rules)
	}
}

func TestRun_DegradedSaveIsWarning(t *testing.T) {
	cfg := &config.Config{EK2BPath: writeEK2B(t)}
	store := &memStore{saveErr: snapshot.ErrDegraded}

	res, _, err := Run(context.Background(), store, logging.Nop(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v, want degraded save tolerated", err)
	}
	if res == nil || len(res.Entries) == 0 {
		t.Error("result discarded on degraded save")
	}
}

func TestRun_OtherSaveErrorIsFatal(t *testing.T) {
	cfg := &config.Config{EK2BPath: writeEK2B(t)}
	store := &memStore{saveErr: fmt.Errorf("disk full")}

	_, _, err := Run(context.Background(), store, logging.Nop(), cfg, nil, nil)
	var pe *PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PipelineError", err)
	}
	if pe.Phase != "save" {
		t.Errorf("phase = %q, want save", pe.Phase)
	}
}
