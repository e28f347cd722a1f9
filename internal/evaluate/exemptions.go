package evaluate

// FrequencyExemptCodes lists procedure codes known to be legitimately
// repeatable, for which the periodic-limit pass is skipped entirely. One
// auditable table instead of inline literals; the reason text is shown when
// explaining why a row was not flagged.
var FrequencyExemptCodes = map[string]string{
	"520010": "muayene, aynı gün farklı branş muayeneleri olağan",
	"520030": "kontrol muayenesi",
	"530140": "pansuman, seri uygulama",
	"530150": "enjeksiyon, seri uygulama",
	"550105": "diyaliz seansı, haftada birden çok seans olağan",
	"702701": "fizik tedavi seansı, kür halinde uygulanır",
	"704271": "radyoterapi fraksiyonu",
	"900120": "kemoterapi uygulaması, kür halinde uygulanır",
}

// SameOperationDuplicateCode has a bespoke rule independent of any extracted
// frequency limit: billing the same operation number twice is always a
// violation for this code.
const SameOperationDuplicateCode = "530080"
