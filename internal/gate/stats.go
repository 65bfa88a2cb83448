package gate

import (
	"fmt"
	"sort"
)

// Stats accumulates validation outcomes for one grouping key.
type Stats struct {
	Total   int
	Valid   int
	Reasons map[Reason]int
}

// Add records one verdict.
func (s *Stats) Add(v Verdict) {
	s.Total++
	if v.Valid {
		s.Valid++
		return
	}
	if s.Reasons == nil {
		s.Reasons = make(map[Reason]int)
	}
	s.Reasons[v.Reason]++
}

// PassRate returns the valid fraction as a percentage.
func (s *Stats) PassRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Valid) / float64(s.Total) * 100
}

// String renders a compact single-line summary.
func (s *Stats) String() string {
	return fmt.Sprintf("%d/%d (%.1f%%)", s.Valid, s.Total, s.PassRate())
}

// GroupedStats accumulates verdicts under arbitrary grouping keys
// (schema id, complexity tier, source).
type GroupedStats map[string]*Stats

// Observe records a verdict under a key.
func (g GroupedStats) Observe(key string, v Verdict) {
	stats, ok := g[key]
	if !ok {
		stats = &Stats{}
		g[key] = stats
	}
	stats.Add(v)
}

// Keys returns the grouping keys sorted for stable reporting.
func (g GroupedStats) Keys() []string {
	keys := make([]string, 0, len(g))
	for key := range g {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Totals sums all groups into one Stats value.
func (g GroupedStats) Totals() Stats {
	var total Stats
	for _, stats := range g {
		total.Total += stats.Total
		total.Valid += stats.Valid
		for reason, count := range stats.Reasons {
			if total.Reasons == nil {
				total.Reasons = make(map[Reason]int)
			}
			total.Reasons[reason] += count
		}
	}
	return total
}
