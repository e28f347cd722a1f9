// mkfixture writes a small deterministic billing Parquet fixture for tests
// and demos. Rows are synthesized to cover the interesting evaluation paths:
// repeated codes within a patient, same-session pairs, tooth numbers,
// operation numbers and missing optional fields.
// Usage: go run ./cmd/mkfixture --out testdata/billing-small.parquet --patients 20
package main

import (
	"flag"
	"fmt"
	"os"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/sutcheck/internal/model"
)

type codeSpec struct {
	code      string
	name      string
	points    float64
	specialty string
}

var codes = []codeSpec{
	{"520.010", "Muayene", 21, "İç Hastalıkları"},
	{"530.080", "Pansuman", 9, "Genel Cerrahi"},
	{"540.110", "EKG", 12, "Kardiyoloji"},
	{"610.120", "Koroner anjiyografi", 450, "Kardiyoloji"},
	{"401.170", "Diş çekimi", 35, "Ağız, Diş ve Çene Cerrahisi"},
	{"704.271", "Hemogram", 7, "İç Hastalıkları"},
}

var dates = []string{"15.01.2026", "16.01.2026", "12.02.2026", "20.03.2026"}

func main() {
	out := flag.String("out", "testdata/billing-small.parquet", "output parquet")
	patients := flag.Int("patients", 20, "number of synthetic patients")
	flag.Parse()

	var rows []model.BillingRow
	for p := 0; p < *patients; p++ {
		pid := fmt.Sprintf("P%05d", p+1)
		// Every patient gets an exam plus a rotating pick from the code
		// table; every third patient repeats a code on a later date to
		// exercise the frequency passes.
		for day := 0; day < 2; day++ {
			date := dates[(p+day)%len(dates)]
			base := codes[p%len(codes)]
			rows = append(rows,
				makeRow(pid, date, codes[0], p),
				makeRow(pid, date, base, p),
			)
			if p%3 == 0 {
				rows = append(rows, makeRow(pid, dates[(p+day+1)%len(dates)], base, p))
			}
		}
	}

	outFile, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	writer := goparquet.NewGenericWriter[model.BillingRow](outFile)
	if _, err := writer.Write(rows); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	if err := writer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close writer: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d rows for %d patients to %s\n", len(rows), *patients, *out)
}

func makeRow(pid, date string, c codeSpec, seed int) model.BillingRow {
	points := c.points
	age := int32(20 + seed%60)
	row := model.BillingRow{
		PatientID:          pid,
		Date:               date,
		Physician:          fmt.Sprintf("Dr. %c", 'A'+seed%26),
		PhysicianSpecialty: c.specialty,
		Code:               c.code,
		CodeName:           c.name,
		Quantity:           1,
		BilledPoints:       &points,
		PatientAge:         &age,
	}
	if c.code == "401.170" {
		tooth := fmt.Sprintf("%d", 11+seed%8)
		row.ToothNo = &tooth
	}
	if seed%4 == 0 {
		op := fmt.Sprintf("OP-%04d", seed)
		row.OperationNo = &op
	}
	return row
}
