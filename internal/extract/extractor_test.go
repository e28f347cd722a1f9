package extract

import (
	"testing"

	"github.com/gyeh/sutcheck/internal/model"
)

// one extracts from desc and asserts exactly a single rule of the given kind.
func one(t *testing.T, desc string, kind model.RuleKind) model.ParsedRule {
	t.Helper()
	rules := Rules(desc, model.SourceEK2B)
	if len(rules) != 1 {
		t.Fatalf("Rules(%q): got %d rules %+v, want 1", desc, len(rules), rules)
	}
	if rules[0].Kind != kind {
		t.Fatalf("Rules(%q): kind = %s, want %s", desc, rules[0].Kind, kind)
	}
	return rules[0]
}

func TestRules_TierExact(t *testing.T) {
	r := one(t, "Bu işlem yalnızca 3. basamak sağlık hizmeti sunucularında yapılabilir.", model.KindTierRestriction)
	p := r.Params.(model.TierParams)
	if len(p.Tiers) != 1 || p.Tiers[0] != 3 {
		t.Errorf("tiers = %v, want [3]", p.Tiers)
	}
	if p.Mode != model.TierExact {
		t.Errorf("mode = %s, want exact", p.Mode)
	}
	if r.Method != model.MethodRegex {
		t.Errorf("method = %s", r.Method)
	}
}

func TestRules_TierOrdinalAtLeast(t *testing.T) {
	r := one(t, "İkinci basamak ve üzeri sağlık kurumlarında yapılır.", model.KindTierRestriction)
	p := r.Params.(model.TierParams)
	if len(p.Tiers) != 1 || p.Tiers[0] != 2 {
		t.Errorf("tiers = %v, want [2]", p.Tiers)
	}
	if p.Mode != model.TierAtLeast {
		t.Errorf("mode = %s, want at_least", p.Mode)
	}
}

func TestRules_TierIncrementSuppressed(t *testing.T) {
	// A tier mention that only attaches a price surcharge is not an
	// eligibility restriction.
	rules := Rules("3. basamakta %30 ilave edilerek faturalandırılır.", model.SourceEK2B)
	if len(rules) != 0 {
		t.Errorf("increment clause produced rules: %+v", rules)
	}
}

func TestRules_SpecialtyKeepsVeInsideName(t *testing.T) {
	r := one(t, "Yalnızca kadın hastalıkları ve doğum uzmanı tarafından yapılır.", model.KindSpecialtyRestriction)
	p := r.Params.(model.SpecialtyParams)
	if len(p.Specialties) != 1 {
		t.Fatalf("specialties = %v, want one entry", p.Specialties)
	}
	if p.Specialties[0] != "kadin hastaliklari ve dogum" {
		t.Errorf("specialty = %q", p.Specialties[0])
	}
}

func TestRules_SpecialtyVeyaSplits(t *testing.T) {
	r := one(t, "Nöroloji veya beyin cerrahisi uzmanı tarafından yapılır.", model.KindSpecialtyRestriction)
	p := r.Params.(model.SpecialtyParams)
	if len(p.Specialties) != 2 {
		t.Fatalf("specialties = %v, want two entries", p.Specialties)
	}
}

func TestRules_ExpansivePhrasingSuppressed(t *testing.T) {
	rules := Rules("Bu işlem aile hekimliği uzmanı tarafından da yapılabilir.", model.SourceEK2B)
	for _, r := range rules {
		if r.Kind == model.KindSpecialtyRestriction {
			t.Errorf("expansive clause recorded as restriction: %+v", r)
		}
	}
}

func TestRules_ExclusionWithCodes(t *testing.T) {
	r := one(t, "618.211 kodlu işlem ile birlikte faturalandırılmaz.", model.KindMutualExclusion)
	p := r.Params.(model.ExclusionParams)
	if len(p.Codes) != 1 || p.Codes[0] != "618211" {
		t.Errorf("codes = %v, want [618211]", p.Codes)
	}
	if p.Wildcard {
		t.Error("wildcard set on explicit code list")
	}
}

func TestRules_ExclusionWildcard(t *testing.T) {
	r := one(t, "Bu işlem başka bir işlemle birlikte faturalandırılamaz.", model.KindMutualExclusion)
	p := r.Params.(model.ExclusionParams)
	if !p.Wildcard {
		t.Error("wildcard not set")
	}
	if len(p.Codes) != 0 {
		t.Errorf("codes = %v, want none", p.Codes)
	}
}

func TestRules_FrequencyCount(t *testing.T) {
	r := one(t, "Yılda en fazla iki kez faturalandırılır.", model.KindFrequencyLimit)
	p := r.Params.(model.FrequencyParams)
	if p.MaxCount != 2 || p.Per != model.PeriodYear {
		t.Errorf("params = %+v, want MaxCount=2 Per=year", p)
	}
	if p.IntervalDays != 0 {
		t.Errorf("IntervalDays = %d, want 0", p.IntervalDays)
	}
}

func TestRules_FrequencyIntervalExplicitDays(t *testing.T) {
	// "6 ay (180 gün)" must yield the explicit day count, not 6*30.
	r := one(t, "Aynı uzman tarafından en az 6 ay (180 gün) arayla yapılabilir.", model.KindFrequencyLimit)
	p := r.Params.(model.FrequencyParams)
	if p.IntervalDays != 180 {
		t.Errorf("IntervalDays = %d, want 180", p.IntervalDays)
	}
	if !p.SameSpecialty {
		t.Error("SameSpecialty not set")
	}
}

func TestRules_Diagnosis(t *testing.T) {
	r := one(t, "E10 veya E11 tanısı ile faturalandırılır.", model.KindDiagnosisCondition)
	p := r.Params.(model.DiagnosisParams)
	if len(p.Codes) != 2 || p.Codes[0] != "E10" || p.Codes[1] != "E11" {
		t.Errorf("codes = %v, want [E10 E11]", p.Codes)
	}
}

func TestRules_AgeUnder(t *testing.T) {
	r := one(t, "18 yaş altı hastalarda faturalandırılmaz.", model.KindAgeRestriction)
	p := r.Params.(model.AgeParams)
	if p.MinAge != nil {
		t.Errorf("MinAge = %v, want nil", *p.MinAge)
	}
	if p.MaxAge == nil || *p.MaxAge != 17 {
		t.Errorf("MaxAge = %v, want 17", p.MaxAge)
	}
}

func TestRules_AgeBetween(t *testing.T) {
	// The clause also carries a count limit; both rules must come out.
	rules := Rules("35-40 yaş arası hastalarda yılda bir uygulanır.", model.SourceEK2B)
	var age *model.AgeParams
	for _, r := range rules {
		if p, ok := r.Params.(model.AgeParams); ok {
			age = &p
		}
	}
	if age == nil {
		t.Fatalf("no age rule in %+v", rules)
	}
	if age.MinAge == nil || *age.MinAge != 35 || age.MaxAge == nil || *age.MaxAge != 40 {
		t.Errorf("range = %v-%v, want 35-40", age.MinAge, age.MaxAge)
	}
}

func TestRules_GeneralNoteFallback(t *testing.T) {
	r := one(t, "SUT 2.4.4 maddesine bakınız.", model.KindGeneralNote)
	if r.Confidence >= 0.7 {
		t.Errorf("note confidence = %v, want below review threshold", r.Confidence)
	}
	if r.SourceText != "SUT 2.4.4 maddesine bakınız" {
		t.Errorf("SourceText = %q", r.SourceText)
	}
}

func TestRules_MultipleKindsFromOneClause(t *testing.T) {
	rules := Rules("Yalnızca 3. basamakta ve yılda en fazla bir kez yapılır.", model.SourceGIL)
	kinds := map[model.RuleKind]bool{}
	for _, r := range rules {
		kinds[r.Kind] = true
	}
	if !kinds[model.KindTierRestriction] || !kinds[model.KindFrequencyLimit] {
		t.Errorf("kinds = %v, want tier and frequency", kinds)
	}
}

func TestSplitClauses_ProtectsOrdinalsAndArticleNumbers(t *testing.T) {
	got := SplitClauses("Bu işlem 3. basamakta yapılır; yılda en fazla 2 kez. SUT 2.4.4.D-1 maddesi geçerlidir.")
	want := []string{
		"Bu işlem 3. basamakta yapılır",
		"yılda en fazla 2 kez",
		"SUT 2.4.4.D-1 maddesi geçerlidir",
	}
	if len(got) != len(want) {
		t.Fatalf("clauses = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("clause[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTierHint_RecoversFromFreeText(t *testing.T) {
	p, ok := TierHint("Sadece üçüncü basamak sağlık tesislerinde uygulanır.")
	if !ok {
		t.Fatal("TierHint found nothing")
	}
	if len(p.Tiers) != 1 || p.Tiers[0] != 3 {
		t.Errorf("tiers = %v, want [3]", p.Tiers)
	}
}
