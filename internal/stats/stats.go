// Package stats computes the summary figures shown above the viewer.
package stats

import "github.com/jeisey/phiti/internal/domain"

// Summary aggregates a record sequence.
type Summary struct {
	Total       int
	OpenCount   int
	ClosedCount int

	// AvgDaysToClose is the mean resolution time over closed requests with a
	// known resolution time, rounded to the nearest day. -1 when no closed
	// request carries one.
	AvgDaysToClose int
}

// Compute summarizes the given records.
func Compute(records []*domain.Record) Summary {
	s := Summary{Total: len(records), AvgDaysToClose: -1}

	totalDays := 0
	resolved := 0
	for _, rec := range records {
		switch rec.Status {
		case domain.StatusOpen:
			s.OpenCount++
		case domain.StatusClosed:
			s.ClosedCount++
			if rec.HasDaysToClose() {
				totalDays += rec.DaysToClose
				resolved++
			}
		}
	}

	if resolved > 0 {
		s.AvgDaysToClose = (totalDays + resolved/2) / resolved
	}
	return s
}
