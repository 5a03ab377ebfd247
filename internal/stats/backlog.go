package stats

import "rtt-forecast/internal/theatre"

// TargetWaitWeeks is the RTT standard: patients waiting this long or less count as within target.
const TargetWaitWeeks = 18

// WaitBands splits a waiting list into the four reporting bands.
type WaitBands struct {
	Within18    int `json:"wl_0_18w"`
	Weeks19To26 int `json:"wl_18_26w"`
	Weeks27To52 int `json:"wl_26_52w"`
	Over52      int `json:"wl_52wplus"`
}

// Add places count patients who have waited weeks into the matching band.
func (b WaitBands) Add(weeks, count int) WaitBands {
	switch {
	case weeks <= TargetWaitWeeks:
		b.Within18 += count
	case weeks <= 26:
		b.Weeks19To26 += count
	case weeks <= 52:
		b.Weeks27To52 += count
	default:
		b.Over52 += count
	}
	return b
}

// Plus sums two band sets.
func (b WaitBands) Plus(o WaitBands) WaitBands {
	return WaitBands{
		Within18:    b.Within18 + o.Within18,
		Weeks19To26: b.Weeks19To26 + o.Weeks19To26,
		Weeks27To52: b.Weeks27To52 + o.Weeks27To52,
		Over52:      b.Over52 + o.Over52,
	}
}

// Total is the sum of all four bands.
func (b WaitBands) Total() int {
	return b.Within18 + b.Weeks19To26 + b.Weeks27To52 + b.Over52
}

// BacklogMetrics summarises a waiting-list snapshot.
type BacklogMetrics struct {
	TotalCount        int       `json:"totalCount"`
	CountWithinTarget int       `json:"countUnder18w"`
	RTTPercent        float64   `json:"rttPercent"`
	LongestWait       int       `json:"longestWait"`
	Bands             WaitBands `json:"bands"`
}

// CalculateBacklogMetrics reduces backlog records to totals, RTT performance and bands.
//
// dataLoaded reports whether the unfiltered backlog dataset has any rows. When the given
// slice is empty the RTT percentage is 0 if data exists elsewhere and 100 if none was loaded.
func CalculateBacklogMetrics(records []theatre.BacklogRecord, dataLoaded bool) BacklogMetrics {
	var m BacklogMetrics
	for _, r := range records {
		if r.PatientCount <= 0 || r.WeeksWait < 0 {
			continue
		}
		m.TotalCount += r.PatientCount
		m.Bands = m.Bands.Add(r.WeeksWait, r.PatientCount)
		if r.WeeksWait > m.LongestWait {
			m.LongestWait = r.WeeksWait
		}
	}
	m.CountWithinTarget = m.Bands.Within18

	empty := 100.0
	if dataLoaded {
		empty = 0
	}
	m.RTTPercent = Percentage(m.CountWithinTarget, m.TotalCount, empty)
	return m
}
