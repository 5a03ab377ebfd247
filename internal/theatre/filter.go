package theatre

import (
	"slices"
	"sort"
)

// Selector sentinels for "no restriction".
const (
	AllSpecialties = "All Specialties"
	AllSurgeons    = "All Surgeons"
	AllSites       = "All Sites"
)

// Selection holds the slicer state: one specialty, a set of surgeons and one site.
type Selection struct {
	Specialty string   `json:"specialty" mapstructure:"specialty"`
	Surgeons  []string `json:"surgeons" mapstructure:"surgeons"`
	Site      string   `json:"site" mapstructure:"site"`
}

// AllSelection returns a selection that matches every record.
func AllSelection() Selection {
	return Selection{Specialty: AllSpecialties, Surgeons: []string{AllSurgeons}, Site: AllSites}
}

// ToggleSurgeon flips one surgeon in or out of the selection. Choosing AllSurgeons,
// or deselecting the last surgeon, resets to AllSurgeons.
func (s Selection) ToggleSurgeon(surgeon string) Selection {
	if surgeon == AllSurgeons {
		s.Surgeons = []string{AllSurgeons}
		return s
	}
	if slices.Contains(s.Surgeons, surgeon) {
		kept := make([]string, 0, len(s.Surgeons))
		for _, name := range s.Surgeons {
			if name != surgeon && name != AllSurgeons {
				kept = append(kept, name)
			}
		}
		if len(kept) == 0 {
			kept = []string{AllSurgeons}
		}
		s.Surgeons = kept
		return s
	}
	if len(s.Surgeons) == 0 || (len(s.Surgeons) == 1 && s.Surgeons[0] == AllSurgeons) {
		s.Surgeons = []string{surgeon}
		return s
	}
	s.Surgeons = append(slices.Clone(s.Surgeons), surgeon)
	return s
}

type predicates struct {
	allSpecialties bool
	specialty      string
	allSurgeons    bool
	surgeons       map[string]bool
	allSites       bool
	site           string
}

func (s Selection) compile() predicates {
	p := predicates{
		allSpecialties: s.Specialty == "" || s.Specialty == AllSpecialties,
		allSurgeons:    len(s.Surgeons) == 0 || slices.Contains(s.Surgeons, AllSurgeons),
		allSites:       s.Site == "" || s.Site == AllSites,
		surgeons:       make(map[string]bool, len(s.Surgeons)),
	}
	if !p.allSpecialties {
		p.specialty = NormalizeSpecialty(s.Specialty)
	}
	for _, name := range s.Surgeons {
		p.surgeons[NormalizeSurgeon(name)] = true
	}
	if !p.allSites {
		p.site = NormalizeSite(s.Site)
	}
	return p
}

func (p predicates) specialtyMatch(specialty string) bool {
	return p.allSpecialties || NormalizeSpecialty(specialty) == p.specialty
}

func (p predicates) surgeonMatch(surgeon string) bool {
	return p.allSurgeons || p.surgeons[NormalizeSurgeon(surgeon)]
}

func (p predicates) siteMatch(site string) bool {
	return p.allSites || NormalizeSite(site) == p.site
}

// Filter applies the selection to every dataset and returns filtered copies.
// Timetable rows match on specialty, surgeon and site; activity on specialty and surgeon;
// backlog, demand and contract on specialty only.
func (d Datasets) Filter(sel Selection) Datasets {
	p := sel.compile()
	var out Datasets

	for _, r := range d.Timetable {
		if p.specialtyMatch(r.Specialty) && p.surgeonMatch(r.Surgeon) && p.siteMatch(r.Site) {
			out.Timetable = append(out.Timetable, r)
		}
	}
	for _, r := range d.Activity {
		if p.specialtyMatch(r.Specialty) && p.surgeonMatch(r.Surgeon) {
			out.Activity = append(out.Activity, r)
		}
	}
	for _, r := range d.Backlog {
		if p.specialtyMatch(r.Specialty) {
			out.Backlog = append(out.Backlog, r)
		}
	}
	for _, r := range d.Demand {
		if p.specialtyMatch(r.Specialty) {
			out.Demand = append(out.Demand, r)
		}
	}
	for _, r := range d.Contract {
		if p.specialtyMatch(r.Specialty) {
			out.Contract = append(out.Contract, r)
		}
	}
	return out
}

// SpecialtyOptions lists every specialty seen across the datasets, sorted,
// bracketed by the "all" sentinel and Unknown.
func (d Datasets) SpecialtyOptions() []string {
	seen := make(map[string]bool)
	add := func(s string) { seen[NormalizeSpecialty(s)] = true }
	for _, r := range d.Timetable {
		add(r.Specialty)
	}
	for _, r := range d.Backlog {
		add(r.Specialty)
	}
	for _, r := range d.Activity {
		add(r.Specialty)
	}
	for _, r := range d.Contract {
		add(r.Specialty)
	}
	for _, r := range d.Demand {
		add(r.Specialty)
	}
	delete(seen, Unknown)

	options := sortedKeys(seen)
	return append(append([]string{AllSpecialties}, options...), Unknown)
}

// DefaultTimetableSpecialty picks the specialty a new timetable row starts with:
// Trauma and Orthopaedics when present, else the first known specialty, else Unknown.
func (d Datasets) DefaultTimetableSpecialty() string {
	const preferred = "110 - Trauma and Orthopaedics"
	var first string
	for _, opt := range d.SpecialtyOptions() {
		if opt == AllSpecialties || opt == Unknown {
			continue
		}
		if opt == preferred {
			return opt
		}
		if first == "" {
			first = opt
		}
	}
	if first == "" {
		return Unknown
	}
	return first
}

// SurgeonOptions lists surgeons from the timetable and activity data, optionally
// restricted to one specialty.
func (d Datasets) SurgeonOptions(specialty string) []string {
	p := Selection{Specialty: specialty}.compile()
	seen := make(map[string]bool)
	for _, r := range d.Timetable {
		if p.specialtyMatch(r.Specialty) {
			seen[NormalizeSurgeon(r.Surgeon)] = true
		}
	}
	for _, r := range d.Activity {
		if p.specialtyMatch(r.Specialty) {
			seen[NormalizeSurgeon(r.Surgeon)] = true
		}
	}
	delete(seen, Unknown)
	return append([]string{AllSurgeons}, sortedKeys(seen)...)
}

// DefaultSites are always offered even if no timetable row uses them.
var DefaultSites = []string{"MT", "SDCC", "Other"}

// SiteOptions merges sites in use with DefaultSites.
func (d Datasets) SiteOptions() []string {
	seen := make(map[string]bool)
	for _, s := range DefaultSites {
		seen[s] = true
	}
	for _, r := range d.Timetable {
		if site := NormalizeSite(r.Site); site != "" {
			seen[site] = true
		}
	}
	return append([]string{AllSites}, sortedKeys(seen)...)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
