package theatre

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unknown is the canonical value for a missing specialty or surgeon.
const Unknown = "Unknown"

// specialtyAliases maps canonical keys (lowercase, no whitespace or punctuation, no "and")
// to the national treatment-function label.
var specialtyAliases = map[string]string{
	"generalsurgery":                  "100 - General Surgery",
	"100generalsurgery":               "100 - General Surgery",
	"gensurg":                         "100 - General Surgery",
	"colorectalsurgery":               "100 - General Surgery",
	"100colorectalsurgery":            "100 - General Surgery",
	"breastsurgery":                   "100 - General Surgery",
	"103breastsurgery":                "100 - General Surgery",
	"104colorectalsurgery":            "100 - General Surgery",
	"urology":                         "101 - Urology",
	"101urology":                      "101 - Urology",
	"urologyekhuft":                   "101 - Urology",
	"traumaorthopaedics":              "110 - Trauma and Orthopaedics",
	"110traumaorthopaedics":           "110 - Trauma and Orthopaedics",
	"to":                              "110 - Trauma and Orthopaedics",
	"110to":                           "110 - Trauma and Orthopaedics",
	"traumaorthopaedic":               "110 - Trauma and Orthopaedics",
	"110orthopaedic":                  "110 - Trauma and Orthopaedics",
	"spinalsurgeryto":                 "110 - Trauma and Orthopaedics",
	"fractureclinic":                  "110 - Trauma and Orthopaedics",
	"bone":                            "110 - Trauma and Orthopaedics",
	"110spinalsurgeryto":              "110 - Trauma and Orthopaedics",
	"110traumaorthopaedic":            "110 - Trauma and Orthopaedics",
	"ent":                             "120 - ENT",
	"120ent":                          "120 - ENT",
	"earnsethroat":                    "120 - ENT",
	"120earnsethroat":                 "120 - ENT",
	"120earnosethroat":                "120 - ENT",
	"oralsurgery":                     "130 - Oral & Maxillo Facial Surgery",
	"130oralsurgery":                  "130 - Oral & Maxillo Facial Surgery",
	"maxillofacialsurgery":            "130 - Oral & Maxillo Facial Surgery",
	"130maxillofacialsurgery":         "130 - Oral & Maxillo Facial Surgery",
	"dentaloralmedicine":              "135 - Oral Medicine",
	"orthodontics":                    "133 - Orthodontics",
	"ophthalmology":                   "140 - Ophthalmology",
	"140ophthalmology":                "140 - Ophthalmology",
	"plasticsurgery":                  "150 - Plastic Surgery",
	"150plasticsurgery":               "150 - Plastic Surgery",
	"paediatricsurgery":               "171 - Paediatric Surgery",
	"171paediatricsurgery":            "171 - Paediatric Surgery",
	"paediatricurology":               "171 - Paediatric Surgery",
	"171paediatricurology":            "171 - Paediatric Surgery",
	"anaesthetics":                    "190 - Anaesthetics",
	"painmanagement":                  "192 - Pain Management",
	"chronicpain":                     "192 - Pain Management",
	"chronicpainspinal":               "192 - Pain Management",
	"medicaloncology":                 "250 - Medical Oncology",
	"generaltmedicine":                "300 - General Medicine",
	"300generalmedicine":              "300 - General Medicine",
	"gastroenterology":                "301 - Gastroenterology",
	"301gastroenterology":             "301 - Gastroenterology",
	"hepatology":                      "301 - Gastroenterology",
	"bowelscreening":                  "301 - Gastroenterology",
	"elderlymedicine":                 "303 - Geriatric Medicine",
	"sleepservice":                    "304 - Sleep Medicine",
	"endocrinologydiabetes":           "310 - Endocrinology and Diabetes",
	"diabeticmedicine":                "310 - Endocrinology and Diabetes",
	"paediatricdiabeticmedicine":      "310 - Endocrinology and Diabetes",
	"thyroid":                         "310 - Endocrinology and Diabetes",
	"endocrinology":                   "310 - Endocrinology and Diabetes",
	"310endocrinology":                "310 - Endocrinology and Diabetes",
	"cardiology":                      "320 - Cardiology",
	"rheumatology":                    "330 - Rheumatology",
	"thoracicmedicine":                "340 - Thoracic Medicine",
	"chest":                           "340 - Thoracic Medicine",
	"neurology":                       "400 - Neurology",
	"chemicalpathology":               "501 - Chemical Pathology",
	"501chemicalpathology":            "501 - Chemical Pathology",
	"gynaecology":                     "502 - Gynaecology",
	"paediatrics":                     "710 - General Paediatrics",
	"communitypaediatrics":            "711 - Community Paediatrics",
	"paediatricendocrinologydiabetes": "712 - Paediatric Endocrinology and Diabetes",
	"nuclearmedicine":                 "810 - Nuclear Medicine",
	"diagnosticimaging":               "811 - Diagnostic Imaging",
	"interventionalradiology":         "811 - Diagnostic Imaging",
	"clinicalhaematology":             "820 - Clinical Haematology",
}

var punctuationStripper = strings.NewReplacer(
	" ", "", "\t", "", "-", "", "&", "", ".", "", "_", "", "(", "", ")", "",
)

// canonicalKey reduces a specialty label to its alias-lookup form.
func canonicalKey(name string) string {
	key := punctuationStripper.Replace(strings.ToLower(name))
	return strings.ReplaceAll(key, "and", "")
}

// titleCase lowercases the input and capitalises each word.
// A Caser is stateful, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.BritishEnglish).String(strings.ToLower(s))
}

// NormalizeSpecialty maps aliases, TFC codes and inconsistent casing onto one canonical label.
func NormalizeSpecialty(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || strings.EqualFold(trimmed, Unknown) {
		return Unknown
	}
	if canonical, ok := specialtyAliases[canonicalKey(trimmed)]; ok {
		return canonical
	}
	return titleCase(trimmed)
}

// NormalizeSurgeon converts "SMITH, MR JOHN" or "john smith" into title case.
func NormalizeSurgeon(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || strings.EqualFold(trimmed, Unknown) {
		return Unknown
	}
	if strings.Contains(trimmed, ",") {
		parts := strings.Split(trimmed, ",")
		for i, p := range parts {
			parts[i] = titleCase(strings.TrimSpace(p))
		}
		return strings.Join(parts, ", ")
	}
	return titleCase(trimmed)
}

// NormalizeSite canonicalises site codes ("mt " -> "MT").
func NormalizeSite(site string) string {
	return strings.ToUpper(strings.TrimSpace(site))
}

// NormalizePathway maps free-text pathway labels onto the two known pathways.
// Anything that is not recognisably admitted is treated as non-admitted.
func NormalizePathway(raw string) Pathway {
	key := strings.ToLower(strings.TrimSpace(raw))
	switch key {
	case "", "admitted", "adm", "ip", "inpatient", "daycase", "day case":
		return PathwayAdmitted
	default:
		return PathwayNonAdmitted
	}
}
