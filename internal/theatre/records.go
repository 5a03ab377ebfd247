package theatre

import (
	"slices"
	"strings"
)

// Pathway identifies the RTT pathway a backlog record belongs to.
type Pathway string

const (
	PathwayAdmitted    Pathway = "Admitted"
	PathwayNonAdmitted Pathway = "Non-Admitted"
)

// IsAdmitted reports whether the pathway is the simulated (admitted) one.
func (p Pathway) IsAdmitted() bool {
	return strings.EqualFold(strings.TrimSpace(string(p)), string(PathwayAdmitted))
}

// TimetableRow is one surgeon's recurring theatre allocation.
type TimetableRow struct {
	ID           string  `json:"id" mapstructure:"id"`
	Specialty    string  `json:"specialty" mapstructure:"specialty"`
	Surgeon      string  `json:"surgeon" mapstructure:"surgeon"`
	Site         string  `json:"site" mapstructure:"site"`
	SessionsOdd  float64 `json:"sessionsOdd" mapstructure:"sessions_odd"`
	SessionsEven float64 `json:"sessionsEven" mapstructure:"sessions_even"`
}

// SessionsPerWeek averages the odd- and even-week session counts.
func (r TimetableRow) SessionsPerWeek() float64 {
	return (r.SessionsOdd + r.SessionsEven) / 2
}

// ActivityRecord is a historical theatre session outcome.
type ActivityRecord struct {
	Specialty string  `json:"specialty"`
	Surgeon   string  `json:"surgeon"`
	SessionID string  `json:"sessionId"`
	Date      string  `json:"date"`      // yyyy-mm-dd
	WeekIndex int     `json:"weekIndex"` // 0-based ISO week
	Completed float64 `json:"completed"`
}

// BacklogRecord is an aggregated waiting-list cohort keyed by (specialty, weeks waited, pathway).
type BacklogRecord struct {
	Specialty    string  `json:"specialty"`
	WeeksWait    int     `json:"weeksWait"`
	Pathway      Pathway `json:"pathwayType"`
	PatientCount int     `json:"patientCount"`
}

// DemandEntry is new-referral demand for one specialty in one week.
type DemandEntry struct {
	Specialty string  `json:"specialty"`
	WeekIndex int     `json:"weekIndex"`
	Demand    float64 `json:"demand"`
}

// ContractEntry is the contracted activity for one specialty in one week.
type ContractEntry struct {
	Specialty    string  `json:"specialty"`
	WeekIndex    int     `json:"weekIndex"`
	WeeklyAmount float64 `json:"weeklyAmount"`
	Week         string  `json:"week,omitempty"` // Monday the week starts on
}

// Datasets bundles the five record collections the engine consumes.
type Datasets struct {
	Timetable []TimetableRow   `json:"timetable"`
	Activity  []ActivityRecord `json:"activity"`
	Backlog   []BacklogRecord  `json:"backlog"`
	Demand    []DemandEntry    `json:"demandProfile"`
	Contract  []ContractEntry  `json:"contractPlan"`
}

// Clone returns a deep copy so that two branches never share backing arrays.
func (d Datasets) Clone() Datasets {
	return Datasets{
		Timetable: slices.Clone(d.Timetable),
		Activity:  slices.Clone(d.Activity),
		Backlog:   slices.Clone(d.Backlog),
		Demand:    slices.Clone(d.Demand),
		Contract:  slices.Clone(d.Contract),
	}
}

// SplitByPathway partitions backlog records into admitted and non-admitted cohorts.
func SplitByPathway(records []BacklogRecord) (admitted, nonAdmitted []BacklogRecord) {
	for _, r := range records {
		if r.Pathway.IsAdmitted() {
			admitted = append(admitted, r)
		} else {
			nonAdmitted = append(nonAdmitted, r)
		}
	}
	return admitted, nonAdmitted
}
