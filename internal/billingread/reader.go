package billingread

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/sutcheck/internal/model"
)

// Reader wraps a parquet GenericReader for streaming BillingRow records.
// Columns outside the fixed schema are read through a second, raw cursor
// advanced in lockstep and surfaced on BillingRow.Extra.
type Reader struct {
	file   *os.File
	reader *parquet.GenericReader[model.BillingRow]

	extras []extraColumn
	groups []parquet.RowGroup
	group  int
	raw    parquet.Rows
	rawBuf []parquet.Row
}

// extraColumn names a pass-through leaf column and its index in the file.
type extraColumn struct {
	name  string
	index int
}

// Open opens a billing Parquet export and returns a streaming Reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open billing file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat billing file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	r := parquet.NewGenericReader[model.BillingRow](pf)
	if err := ValidateSchema(r.Schema()); err != nil {
		r.Close()
		f.Close()
		return nil, err
	}

	rd := &Reader{file: f, reader: r}
	rd.extras = passThroughColumns(pf.Schema())
	if len(rd.extras) > 0 {
		rd.groups = pf.RowGroups()
		rd.rawBuf = make([]parquet.Row, 256)
	}
	return rd, nil
}

// passThroughColumns lists the leaf columns the fixed schema does not decode.
func passThroughColumns(schema *parquet.Schema) []extraColumn {
	var out []extraColumn
	for _, field := range schema.Fields() {
		name := field.Name()
		if fixedColumns[strings.ToLower(name)] {
			continue
		}
		leaf, ok := schema.Lookup(name)
		if !ok {
			continue
		}
		out = append(out, extraColumn{name: name, index: leaf.ColumnIndex})
	}
	return out
}

// NumRows returns the total number of rows in the file.
func (r *Reader) NumRows() int64 {
	return r.reader.NumRows()
}

// Read reads up to len(rows) records into the provided slice.
// Returns the number of rows read and io.EOF when done.
func (r *Reader) Read(rows []model.BillingRow) (int, error) {
	n, err := r.reader.Read(rows)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("read billing rows: %w", err)
	}
	if n > 0 && len(r.extras) > 0 {
		if aerr := r.attachExtras(rows[:n]); aerr != nil {
			return n, aerr
		}
	}
	return n, err
}

// attachExtras advances the raw cursor over the same rows the generic
// reader just decoded and copies pass-through values onto them.
func (r *Reader) attachExtras(rows []model.BillingRow) error {
	for filled := 0; filled < len(rows); {
		if r.raw == nil {
			if r.group >= len(r.groups) {
				return fmt.Errorf("read pass-through columns: file ended at row %d", filled)
			}
			r.raw = r.groups[r.group].Rows()
			r.group++
		}

		want := len(rows) - filled
		if want > len(r.rawBuf) {
			want = len(r.rawBuf)
		}
		n, err := r.raw.ReadRows(r.rawBuf[:want])
		for _, raw := range r.rawBuf[:n] {
			row := &rows[filled]
			row.Extra = nil
			for _, col := range r.extras {
				for _, v := range raw {
					if v.Column() != col.index || v.IsNull() {
						continue
					}
					if row.Extra == nil {
						row.Extra = make(map[string]string)
					}
					row.Extra[col.name] = v.String()
				}
			}
			filled++
		}
		if err == io.EOF {
			r.raw.Close()
			r.raw = nil
			continue
		}
		if err != nil {
			return fmt.Errorf("read pass-through columns: %w", err)
		}
	}
	return nil
}

// ReadAll streams the whole file into memory. Billing exports analyzed in
// one run fit comfortably; chunking happens downstream in the orchestrator.
func (r *Reader) ReadAll() ([]model.BillingRow, error) {
	out := make([]model.BillingRow, 0, r.NumRows())
	buf := make([]model.BillingRow, 1000)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Close releases all resources.
func (r *Reader) Close() error {
	if r.raw != nil {
		r.raw.Close()
		r.raw = nil
	}
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}
