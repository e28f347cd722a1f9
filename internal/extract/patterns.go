package extract

import "regexp"

// All patterns run against normalize.Fold output: Turkish-lowercased,
// diacritic-folded, whitespace-collapsed text.

// --- tier restriction ---

var (
	tierNumeral = regexp.MustCompile(`\b([1-3])\s*\.?\s*basamak`)
	tierOrdinal = regexp.MustCompile(`\b(birinci|ikinci|ucuncu)\s+basamak`)
	tierAtLeast = regexp.MustCompile(`basamak[a-z ]*\b(ve uzeri|ve ustu|ve uzerinde|veya uzeri)\b`)
)

var ordinalTiers = map[string]int{
	"birinci": 1,
	"ikinci":  2,
	"ucuncu":  3,
}

// tierRestrictionCues must appear for a basamak mention to count as an
// eligibility restriction at all.
var tierRestrictionCues = []string{
	"yalnizca",
	"sadece",
	"yapilabilir",
	"yapilir",
	"faturalan",
	"puanlan",
	"uygulan",
}

// tierIncrementCues mark price-surcharge clauses ("tier 3'te %30 ilave")
// that mention a tier without restricting eligibility to it.
var tierIncrementCues = []string{
	"fark",
	"ilave",
	"artirim",
	"%",
	"yuzde",
	"oran",
	"ek odeme",
	"ucret",
}

// --- specialty restriction ---

var specialtyPattern = regexp.MustCompile(
	`(?:yalnizca |sadece )?([a-z0-9,() ]+?)\s+uzman(?:i|lari)?(?: hekim(?:i|ler)?(?:i|ince)?)?\s+tarafindan\s+(?:yapilir|yapilmalidir|yapilmasi|yapilabilir|uygulanir|uygulanmasi|faturalandirilir|puanlandirilir)`)

var specialtyLeadNoise = []string{
	"bu islem",
	"bu islemler",
	"islem",
	"ancak",
}

// expansiveCues mark phrasing that widens the allowed set instead of
// narrowing it ("X uzmani tarafindan da yapilabilir"). Such clauses are
// dropped entirely, not recorded as restrictions.
var expansiveCues = []string{
	"tarafindan da",
	"tarafindan de",
	"icin de",
	"icin da",
	"ayrica",
	"ilave olarak",
	"ek olarak",
	"da puanlan",
	"de puanlan",
	"da faturalan",
	"de faturalan",
	"da yapilabilir",
	"de yapilabilir",
	"da uygulanabilir",
	"de uygulanabilir",
}

// --- mutual exclusion ---

var (
	exclusionCue = regexp.MustCompile(
		`birlikte (?:faturalandirilamaz|faturalandirilmaz|faturalanamaz|faturalanmaz|kodlanamaz|puanlandirilmaz)|ayni (?:seansta|faturada) (?:faturalandirilamaz|faturalandirilmaz|yer alamaz)`)
	exclusionWildcard = regexp.MustCompile(
		`(?:baska bir|baska hicbir|diger|hicbir) islem(?:le)?`)
	codePattern = regexp.MustCompile(`\b[a-z]?\d{3}[.,]?\d{3}\b`)
	sameTooth   = regexp.MustCompile(`ayni dis`)
)

// --- frequency limit ---

var (
	freqCount = regexp.MustCompile(
		`\b(gunde|haftada|ayda|yilda)\s+(?:en fazla\s+)?(bir|iki|uc|dort|bes|alti|\d+)\s*(?:kez|defa|kere|adet)?\b`)
	freqInterval = regexp.MustCompile(
		`(?:en az\s+)?(\d+)\s+(gun|hafta|ay|yil)(?:de|da|luk|lik)?\s+(?:ara ?(?:yla|lik)?|bir)`)
	freqExplicitDays = regexp.MustCompile(`\((\d+)\s*gun\)|\b(\d+)\s*gunden (?:once|erken)`)
	sameSpecialty    = regexp.MustCompile(`ayni (?:uzman|brans|uzmanlik)`)
)

var periodsByWord = map[string]string{
	"gunde":   "day",
	"haftada": "week",
	"ayda":    "month",
	"yilda":   "year",
}

var numberWords = map[string]int{
	"bir":  1,
	"iki":  2,
	"uc":   3,
	"dort": 4,
	"bes":  5,
	"alti": 6,
}

var intervalUnitDays = map[string]int{
	"gun":   1,
	"hafta": 7,
	"ay":    30,
	"yil":   365,
}

// --- diagnosis condition ---

var (
	diagnosisCue = regexp.MustCompile(`\btani(?:si|lari|lar)?(?:nda|yla|sinda)?\b|\bendikasyon`)
	icd10Pattern = regexp.MustCompile(`\b([a-z]\d{2}(?:\.\d{1,2})?)\b`)
)

// --- age restriction ---

var (
	ageUnder   = regexp.MustCompile(`\b(\d{1,3})\s+yas(?:in)?\s+alti`)
	ageOver    = regexp.MustCompile(`\b(\d{1,3})\s+yas(?:in)?\s+(?:ustu|ustunde|uzeri|uzerinde)`)
	ageBetween = regexp.MustCompile(`\b(\d{1,3})\s*[-–]\s*(\d{1,3})\s+yas(?: arasi| araliginda)?`)
)

// --- dental treatment ---

var dentalCue = regexp.MustCompile(`dis hekim|dis tedavi|agiz ve dis|dis protez|cene cerrahisi`)

// --- general note ---

// noteCues mark clauses worth keeping as free-text regulatory context even
// when no structured rule could be extracted from them.
var noteCues = []string{
	"sut",
	"madde",
	"bakiniz",
	"rapor",
	"kosul",
	"sart",
	"endikasyon",
	"onay",
	"heyet",
	"saglik kurulu",
	"odenmez",
	"odenir",
}
