package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeisey/phiti/internal/domain"
)

var now = time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)

func testRecords() []*domain.Record {
	daysAgo := func(n int) *time.Time {
		t := now.AddDate(0, 0, -n)
		return &t
	}
	return []*domain.Record{
		{ID: "1", ServiceRequestID: "SR-1", Area: "Old City", ZipCode: "19106",
			Status: domain.StatusOpen, Address: "100 Market St", StatusNotes: domain.NotAvailable,
			RequestedAt: daysAgo(3)},
		{ID: "2", ServiceRequestID: "SR-2", Area: "Old City", ZipCode: "19106",
			Status: domain.StatusClosed, Address: "200 Arch St", StatusNotes: "Removed",
			RequestedAt: daysAgo(20)},
		{ID: "3", ServiceRequestID: "SR-3", Area: "University City", ZipCode: "19104",
			Status: domain.StatusClosed, Address: "3400 Walnut St", StatusNotes: "Painted over",
			RequestedAt: daysAgo(100)},
		{ID: "4", ServiceRequestID: "SR-4", Area: domain.AreaNotFound, ZipCode: "19199",
			Status: "Pending", Address: domain.NotAvailable, StatusNotes: domain.NotAvailable,
			RequestedAt: nil},
	}
}

func eval(t *testing.T, q domain.FilterQuery) []*domain.Record {
	t.Helper()
	result, err := Evaluate(context.Background(), testRecords(), q, now)
	require.NoError(t, err)
	return result
}

func ids(records []*domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestEvaluateMatchAll(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(eval(t, domain.MatchAll())))
}

func TestEvaluateAreaExact(t *testing.T) {
	q := domain.MatchAll()
	q.Area = "Old City"
	assert.Equal(t, []string{"1", "2"}, ids(eval(t, q)))
}

func TestEvaluateSentinelAreaIsQueryable(t *testing.T) {
	q := domain.MatchAll()
	q.Area = domain.AreaNotFound
	assert.Equal(t, []string{"4"}, ids(eval(t, q)))
}

func TestEvaluateZipExact(t *testing.T) {
	q := domain.MatchAll()
	q.ZipCode = "19104"
	assert.Equal(t, []string{"3"}, ids(eval(t, q)))
}

func TestEvaluateStatusSelection(t *testing.T) {
	q := domain.MatchAll()
	q.StatusAny = false
	q.Open = true
	assert.Equal(t, []string{"1"}, ids(eval(t, q)))

	q.Open = false
	q.Closed = true
	assert.Equal(t, []string{"2", "3"}, ids(eval(t, q)))

	q.Open = true
	assert.Equal(t, []string{"1", "2", "3"}, ids(eval(t, q)))
}

func TestEvaluateNeitherStatusIsEmpty(t *testing.T) {
	q := domain.MatchAll()
	q.StatusAny = false
	assert.Empty(t, eval(t, q))
}

func TestEvaluateDateRange(t *testing.T) {
	q := domain.MatchAll()
	q.DateRange = domain.RangeLastWeek
	assert.Equal(t, []string{"1"}, ids(eval(t, q)))

	q.DateRange = domain.RangeLastMonth
	assert.Equal(t, []string{"1", "2"}, ids(eval(t, q)))

	// Records without a parsed date never pass a date predicate.
	q.DateRange = domain.RangeLastYear
	assert.Equal(t, []string{"1", "2", "3"}, ids(eval(t, q)))
}

func TestEvaluateSearch(t *testing.T) {
	q := domain.MatchAll()
	q.SearchTerm = "walnut"
	assert.Equal(t, []string{"3"}, ids(eval(t, q)))

	// Matches the record's own identifiers too.
	q.SearchTerm = "sr-2"
	assert.Equal(t, []string{"2"}, ids(eval(t, q)))

	q.SearchTerm = "19106"
	assert.Equal(t, []string{"1", "2"}, ids(eval(t, q)))

	// Whitespace-only terms disable the predicate.
	q.SearchTerm = "   "
	assert.Len(t, eval(t, q), 4)
}

// TestEvaluateConjunction checks that a multi-field query equals the
// intersection of the single-field queries.
func TestEvaluateConjunction(t *testing.T) {
	area := domain.MatchAll()
	area.Area = "Old City"

	status := domain.MatchAll()
	status.StatusAny = false
	status.Closed = true

	both := domain.MatchAll()
	both.Area = "Old City"
	both.StatusAny = false
	both.Closed = true

	inAreaSet := map[string]bool{}
	for _, r := range eval(t, area) {
		inAreaSet[r.ID] = true
	}
	var intersection []string
	for _, r := range eval(t, status) {
		if inAreaSet[r.ID] {
			intersection = append(intersection, r.ID)
		}
	}

	assert.Equal(t, intersection, ids(eval(t, both)))
}

func TestEvaluateCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Evaluate(ctx, testRecords(), domain.MatchAll(), now)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateDoesNotMutateInput(t *testing.T) {
	records := testRecords()
	q := domain.MatchAll()
	q.Area = "Old City"

	_, err := Evaluate(context.Background(), records, q, now)
	require.NoError(t, err)

	assert.Equal(t, "University City", records[2].Area)
	assert.Len(t, records, 4)
}
