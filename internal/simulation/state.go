package simulation

import (
	"maps"
	"slices"

	"rtt-forecast/internal/stats"
	"rtt-forecast/internal/theatre"
)

// BacklogState is an immutable snapshot of the waiting list keyed by weeks waited.
// Every transition returns a new value; the receiver is never modified.
type BacklogState struct {
	counts map[int]int
}

// NewBacklogState copies counts, dropping empty or negative buckets.
func NewBacklogState(counts map[int]int) BacklogState {
	s := BacklogState{counts: make(map[int]int, len(counts))}
	for w, c := range counts {
		if c > 0 && w >= 0 {
			s.counts[w] = c
		}
	}
	return s
}

// StateFromRecords aggregates backlog rows by weeks waited. Callers pass the admitted
// cohort; pathway is not inspected here.
func StateFromRecords(records []theatre.BacklogRecord) BacklogState {
	counts := make(map[int]int)
	for _, r := range records {
		if r.PatientCount > 0 && r.WeeksWait >= 0 {
			counts[r.WeeksWait] += r.PatientCount
		}
	}
	return BacklogState{counts: counts}
}

// Count returns the number of patients who have waited exactly weeks.
func (s BacklogState) Count(weeks int) int {
	return s.counts[weeks]
}

// Counts returns a copy of the underlying mapping.
func (s BacklogState) Counts() map[int]int {
	return maps.Clone(s.counts)
}

// Total is the size of the waiting list.
func (s BacklogState) Total() int {
	total := 0
	for _, c := range s.counts {
		total += c
	}
	return total
}

// Empty reports whether nobody is waiting.
func (s BacklogState) Empty() bool {
	return len(s.counts) == 0
}

// LongestWait returns the highest weeks-waited bucket, or 0 for an empty list.
func (s BacklogState) LongestWait() int {
	longest := 0
	for w := range s.counts {
		longest = max(longest, w)
	}
	return longest
}

// Bands splits the list into the four reporting bands.
func (s BacklogState) Bands() stats.WaitBands {
	var b stats.WaitBands
	for w, c := range s.counts {
		b = b.Add(w, c)
	}
	return b
}

// RTTPercent is the share of the list within the 18-week standard; an empty list is 100%.
func (s BacklogState) RTTPercent() float64 {
	return stats.Percentage(s.Bands().Within18, s.Total(), 100)
}

// Aged moves every patient one week further along.
func (s BacklogState) Aged() BacklogState {
	next := make(map[int]int, len(s.counts))
	for w, c := range s.counts {
		if c > 0 {
			next[w+1] = c
		}
	}
	return BacklogState{counts: next}
}

// WithAdmissions adds n newly referred patients at zero weeks waited.
func (s BacklogState) WithAdmissions(n int) BacklogState {
	next := maps.Clone(s.counts)
	if next == nil {
		next = make(map[int]int)
	}
	if n > 0 {
		next[0] += n
	}
	return BacklogState{counts: next}
}

// Treated removes up to n patients, longest waiters first, and reports how many were
// actually treated.
func (s BacklogState) Treated(n int) (BacklogState, int) {
	next := make(map[int]int, len(s.counts))
	waits := slices.Sorted(maps.Keys(s.counts))
	slices.Reverse(waits)

	treated := 0
	for _, w := range waits {
		c := s.counts[w]
		take := min(max(n-treated, 0), c)
		treated += take
		if rest := c - take; rest > 0 {
			next[w] = rest
		}
	}
	return BacklogState{counts: next}, treated
}
