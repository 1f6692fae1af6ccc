// Package domain defines the normalized domain types for graffiti-removal
// service requests. These types represent the core concepts independent of the
// raw CSV feed structure.
package domain

import "time"

// Placeholder values used instead of empty/absent fields so that presentation
// code never has to null-check.
const (
	// AreaNotFound is the sentinel area for zip codes missing from the
	// reference feed.
	AreaNotFound = "Area Not Found"
	// AreaUnresolved marks records whose area has not been joined yet.
	// It must never survive past a completed load.
	AreaUnresolved = "_unresolved_"
	// NotAvailable is the placeholder for absent free-text fields.
	NotAvailable = "N/A"
)

// Status constants for the values the city feed uses in practice. The status
// field is an open set: any other string is carried through untouched.
const (
	StatusOpen   = "Open"
	StatusClosed = "Closed"
)

// Record represents one graffiti-removal service request in normalized form.
type Record struct {
	ID               string // Row identifier from the feed (cartodb id); share key
	ServiceRequestID string // 311 service request number
	ZipCode          string // Validated 5-digit zip code
	Area             string // Joined from the reference feed, or AreaNotFound
	MediaURL         string // Absolute http(s) URL of the request photo
	Address          string // Street address, NotAvailable when absent
	Status           string // Open set, practically StatusOpen/StatusClosed
	StatusNotes      string // Free text, NotAvailable when absent

	RequestedAt *time.Time // nil when the timestamp did not parse
	ClosedAt    *time.Time // nil when the timestamp did not parse

	// Human-readable forms of the timestamps, retained even when parsing
	// fails so the viewer can always show something.
	RequestedDisplay string
	ClosedDisplay    string

	// DaysToClose is the resolution time in whole days; -1 means unknown.
	DaysToClose int
}

// HasDaysToClose reports whether a resolution time is known.
func (r *Record) HasDaysToClose() bool { return r.DaysToClose >= 0 }

// Year returns the year component of RequestedAt, or 0 when unknown.
func (r *Record) Year() int {
	if r.RequestedAt == nil {
		return 0
	}
	return r.RequestedAt.Year()
}

// DateRange tags for the relative requested-date filter.
type DateRange string

const (
	RangeAll        DateRange = "all"
	RangeLastWeek   DateRange = "lastWeek"
	RangeLastMonth  DateRange = "lastMonth"
	RangeLast3Month DateRange = "last3Months"
	RangeLastYear   DateRange = "lastYear"
)

// Cutoff returns the earliest RequestedAt admitted by the range, relative to
// now. The second return is false for RangeAll (and unknown tags), which
// disable the date predicate entirely.
func (d DateRange) Cutoff(now time.Time) (time.Time, bool) {
	switch d {
	case RangeLastWeek:
		return now.AddDate(0, 0, -7), true
	case RangeLastMonth:
		return now.AddDate(0, -1, 0), true
	case RangeLast3Month:
		return now.AddDate(0, -3, 0), true
	case RangeLastYear:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// FilterQuery describes one filter/search request.
type FilterQuery struct {
	Area       string    // exact match, "" disables
	ZipCode    string    // exact match, "" disables
	Open       bool      // include records with StatusOpen
	Closed     bool      // include records with StatusClosed
	StatusAny  bool      // true disables the status predicate entirely
	DateRange  DateRange // relative cutoff on RequestedAt
	SearchTerm string    // case-insensitive substring over the text fields
}

// MatchAll returns the query that matches every record.
func MatchAll() FilterQuery {
	return FilterQuery{StatusAny: true, DateRange: RangeAll}
}
