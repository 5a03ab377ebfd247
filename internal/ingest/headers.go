package ingest

import "strings"

// Column aliases recognised in uploaded files, matched case-insensitively.
var (
	specialtyAliases = []string{"Specialty", "Spec", "Service", "Treatment Function"}
	weeksWaitAliases = []string{"Weeks Wait", "Weeks_Wait", "Wait (Weeks)", "Current Wait"}
	pathwayAliases   = []string{"PathwayType", "Pathway Type", "Status", "PTL Type"}
	countAliases     = []string{"Patient Count", "PatientCount", "Patients", "Count"}
	surgeonAliases   = []string{"Surgeon", "Consultant", "Operator", "Primary Surgeon"}
	weekAliases      = []string{"Week", "Week Starting", "Week Of"}
	dateAliases      = []string{"Date", "Session Date", "Activity Date", "Procedure Date"}
	sessionIDAliases = []string{"SessionID", "Session ID", "List ID", "Session Code"}
	completedAliases = []string{"Completed", "Cases Done", "Actual Cases", "Finished"}
	demandAliases    = []string{"Additions", "DTA", "Demand", "New DTAs", "Referrals"}
	siteAliases      = []string{"Site", "Location", "Hospital"}
	oddAliases       = []string{"SessionsOdd", "Sessions Odd", "Odd Week Sessions", "Odd"}
	evenAliases      = []string{"SessionsEven", "Sessions Even", "Even Week Sessions", "Even"}
	idAliases        = []string{"ID", "Row ID"}
)

// findHeader returns the index of the first header matching any alias, or -1.
func findHeader(headers []string, aliases []string) int {
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		for _, a := range aliases {
			if h == strings.ToLower(a) {
				return i
			}
		}
	}
	return -1
}

// columns resolves named fields against a header row and records which required
// fields are missing.
type columns struct {
	headers []string
	index   map[string]int
	missing []string
}

func newColumns(headers []string) *columns {
	return &columns{headers: headers, index: make(map[string]int)}
}

func (c *columns) require(field string, aliases []string) {
	c.lookup(field, aliases, false)
}

func (c *columns) optional(field string, aliases []string) {
	c.lookup(field, aliases, true)
}

func (c *columns) lookup(field string, aliases []string, optional bool) {
	i := findHeader(c.headers, aliases)
	if i < 0 && !optional {
		c.missing = append(c.missing, field+" (tried: "+strings.Join(aliases, ", ")+")")
	}
	c.index[field] = i
}

func (c *columns) has(field string) bool {
	i, ok := c.index[field]
	return ok && i >= 0
}

// get returns the trimmed cell for field, or "" when the column or cell is absent.
func (c *columns) get(row []string, field string) string {
	i, ok := c.index[field]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
