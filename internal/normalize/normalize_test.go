package normalize

import "testing"

func TestCode_StripsSeparators(t *testing.T) {
	cases := map[string]string{
		"520.010":   "520010",
		"520,010":   "520010",
		" 520010 ":  "520010",
		"P520.010":  "P520010",
		"520-010/a": "520010A",
	}
	for in, want := range cases {
		if got := Code(in); got != want {
			t.Errorf("Code(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCode_Idempotent(t *testing.T) {
	once := Code("520.010")
	if got := Code(once); got != once {
		t.Errorf("Code not idempotent: %q → %q", once, got)
	}
}

func TestFold_TurkishDottedI(t *testing.T) {
	// Dotted İ must lower to i, dotless I to ı (then fold to i). A naive
	// ASCII lowercase gets both wrong.
	if got := Fold("İSTANBUL"); got != "istanbul" {
		t.Errorf("Fold(İSTANBUL) = %q", got)
	}
	if got := Fold("KADIN HASTALIKLARI"); got != "kadin hastaliklari" {
		t.Errorf("Fold(KADIN HASTALIKLARI) = %q", got)
	}
}

func TestFold_DiacriticsAndWhitespace(t *testing.T) {
	if got := Fold("  Üçüncü   basamak\tsağlık  "); got != "ucuncu basamak saglik" {
		t.Errorf("Fold = %q", got)
	}
}

func TestParseDate_Formats(t *testing.T) {
	for _, in := range []string{"15.01.2026", "2026-01-15", "15/01/2026"} {
		d := ParseDate(in)
		if d == nil {
			t.Fatalf("ParseDate(%q) = nil", in)
		}
		if d.Year() != 2026 || int(d.Month()) != 1 || d.Day() != 15 {
			t.Errorf("ParseDate(%q) = %v", in, d)
		}
	}
}

func TestParseDate_Malformed(t *testing.T) {
	if d := ParseDate("not a date"); d != nil {
		t.Errorf("ParseDate(malformed) = %v, want nil", d)
	}
	if d := ParseDate(""); d != nil {
		t.Errorf("ParseDate(empty) = %v, want nil", d)
	}
}

func TestDayDiff_Calendar(t *testing.T) {
	a := ParseDate("15.01.2026")
	b := ParseDate("12.02.2026")
	if got := DayDiff(*a, *b); got != 28 {
		t.Errorf("DayDiff = %d, want 28", got)
	}
	if got := DayDiff(*b, *a); got != -28 {
		t.Errorf("DayDiff reversed = %d, want -28", got)
	}
}
