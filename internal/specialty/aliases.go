package specialty

import "github.com/gyeh/sutcheck/internal/normalize"

// aliasGroups is the curated table of specialty name equivalences: the
// official specialty name first, colloquial/legacy names after. Matching is
// done on normalize.Name output, so diacritics and case never matter here.
var aliasGroups = [][]string{
	{"kadın hastalıkları ve doğum", "kadın doğum", "kadın hastalıkları", "jinekoloji"},
	{"iç hastalıkları", "dahiliye"},
	{"göz hastalıkları", "göz"},
	{"kulak burun boğaz hastalıkları", "kulak burun boğaz", "kbb"},
	{"ortopedi ve travmatoloji", "ortopedi"},
	{"genel cerrahi", "cerrahi"},
	{"beyin ve sinir cerrahisi", "beyin cerrahisi", "nöroşirürji"},
	{"kalp ve damar cerrahisi", "kalp damar cerrahisi", "kvc"},
	{"göğüs hastalıkları", "göğüs"},
	{"göğüs cerrahisi"},
	{"çocuk sağlığı ve hastalıkları", "çocuk hastalıkları", "pediatri"},
	{"çocuk cerrahisi"},
	{"deri ve zührevi hastalıkları", "dermatoloji", "cildiye"},
	{"nöroloji", "sinir hastalıkları"},
	{"ruh sağlığı ve hastalıkları", "psikiyatri"},
	{"çocuk ve ergen ruh sağlığı ve hastalıkları", "çocuk psikiyatrisi"},
	{"üroloji", "bevliye"},
	{"kardiyoloji", "kalp hastalıkları"},
	{"fiziksel tıp ve rehabilitasyon", "fizik tedavi", "ftr"},
	{"radyoloji", "röntgen"},
	{"radyasyon onkolojisi"},
	{"tıbbi onkoloji", "onkoloji"},
	{"enfeksiyon hastalıkları ve klinik mikrobiyoloji", "enfeksiyon hastalıkları", "intaniye"},
	{"tıbbi mikrobiyoloji", "mikrobiyoloji"},
	{"tıbbi biyokimya", "biyokimya"},
	{"tıbbi patoloji", "patoloji"},
	{"anesteziyoloji ve reanimasyon", "anestezi"},
	{"acil tıp", "acil"},
	{"aile hekimliği", "aile hekimi"},
	{"plastik rekonstrüktif ve estetik cerrahi", "plastik cerrahi"},
	{"nükleer tıp"},
	{"halk sağlığı"},
	{"spor hekimliği"},
	{"ağız diş ve çene cerrahisi", "diş hekimliği", "diş hekimi"},
	{"endokrinoloji ve metabolizma hastalıkları", "endokrinoloji"},
	{"gastroenteroloji"},
	{"nefroloji"},
	{"hematoloji"},
	{"romatoloji"},
	{"geriatri"},
}

// stopWords are dropped before token-overlap comparison; they carry no
// discriminating meaning between specialty names.
var stopWords = map[string]bool{
	"ve":        true,
	"ile":       true,
	"uzmani":    true,
	"uzman":     true,
	"hekimi":    true,
	"hekim":     true,
	"hekimligi": true,
	"dali":      true,
	"ana":       true,
	"bilim":     true,
}

// Table is the immutable alias lookup built once at startup and passed
// explicitly into the Matcher.
type Table struct {
	groupByName map[string]int
}

// NewTable builds the alias lookup from the curated groups.
func NewTable() *Table {
	t := &Table{groupByName: make(map[string]int)}
	for id, group := range aliasGroups {
		for _, name := range group {
			t.groupByName[normalize.Name(name)] = id
		}
	}
	return t
}

// group returns the alias-group id for a normalized name, or -1.
func (t *Table) group(norm string) int {
	if id, ok := t.groupByName[norm]; ok {
		return id
	}
	return -1
}
