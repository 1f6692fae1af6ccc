package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeisey/phiti/internal/csvio"
	"github.com/jeisey/phiti/internal/domain"
)

func validRow() csvio.Row {
	return csvio.Row{
		ColID:          "12345",
		ColRequestID:   "SR-999",
		ColStatus:      domain.StatusClosed,
		ColStatusNotes: "Removed by crew",
		ColRequested:   "2023-01-10T00:00:00Z",
		ColClosed:      "2023-01-15T00:00:00Z",
		ColAddress:     "100 Main St",
		ColZip:         "19104",
		ColMediaURL:    "https://x/img.jpg",
		ColTimeToClose: "",
	}
}

func TestNormalizeValidRow(t *testing.T) {
	n := New(nil)
	records := n.Normalize([]csvio.Row{validRow()})

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "12345", rec.ID)
	assert.Equal(t, domain.StatusClosed, rec.Status)
	assert.Equal(t, "19104", rec.ZipCode)
	assert.Equal(t, domain.AreaUnresolved, rec.Area)
	assert.Equal(t, 5, rec.DaysToClose)
	require.NotNil(t, rec.RequestedAt)
	assert.Equal(t, 2023, rec.RequestedAt.Year())
	assert.Equal(t, "Jan 10, 2023", rec.RequestedDisplay)
}

func TestNormalizeRejectsShortZip(t *testing.T) {
	row := validRow()
	row[ColZip] = "1910"

	records := New(nil).Normalize([]csvio.Row{row})
	assert.Empty(t, records)
}

func TestNormalizeRejectsNonNumericZip(t *testing.T) {
	row := validRow()
	row[ColZip] = "1910a"

	records := New(nil).Normalize([]csvio.Row{row})
	assert.Empty(t, records)
}

func TestNormalizeRejectsBadMediaURL(t *testing.T) {
	for _, url := range []string{"", "ftp://x/img.jpg", "img.jpg"} {
		row := validRow()
		row[ColMediaURL] = url

		records := New(nil).Normalize([]csvio.Row{row})
		assert.Empty(t, records, "url %q should be rejected", url)
	}
}

func TestNormalizeAcceptsUppercaseScheme(t *testing.T) {
	row := validRow()
	row[ColMediaURL] = "HTTPS://x/img.jpg"

	records := New(nil).Normalize([]csvio.Row{row})
	assert.Len(t, records, 1)
}

func TestNormalizeBadRowDoesNotAbortOthers(t *testing.T) {
	bad := validRow()
	bad[ColZip] = "abc"

	records := New(nil).Normalize([]csvio.Row{bad, validRow()})
	require.Len(t, records, 1)
	assert.Equal(t, "12345", records[0].ID)
}

func TestNormalizeUnparseableDateKeepsRow(t *testing.T) {
	row := validRow()
	row[ColRequested] = "not a date"

	records := New(nil).Normalize([]csvio.Row{row})
	require.Len(t, records, 1)
	assert.Nil(t, records[0].RequestedAt)
	assert.Equal(t, "not a date", records[0].RequestedDisplay)
}

func TestNormalizePlaceholders(t *testing.T) {
	row := validRow()
	row[ColAddress] = ""
	row[ColStatusNotes] = "  "

	records := New(nil).Normalize([]csvio.Row{row})
	require.Len(t, records, 1)
	assert.Equal(t, domain.NotAvailable, records[0].Address)
	assert.Equal(t, domain.NotAvailable, records[0].StatusNotes)
}

func TestParseTimestampOffsets(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2023-01-10T08:30:00Z", time.Date(2023, 1, 10, 8, 30, 0, 0, time.UTC)},
		{"2023-01-10T08:30:00+00", time.Date(2023, 1, 10, 8, 30, 0, 0, time.UTC)},
		{"2023-01-10 08:30:00", time.Date(2023, 1, 10, 8, 30, 0, 0, time.UTC)},
		{"2023-01-10", time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		got, _ := parseTimestamp(tc.raw)
		require.NotNil(t, got, "raw %q", tc.raw)
		assert.True(t, tc.want.Equal(*got), "raw %q parsed as %v", tc.raw, got)
	}
}

func TestDaysToCloseFallbacks(t *testing.T) {
	req := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)
	closed := time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)
	before := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)

	// Supplied column wins.
	assert.Equal(t, 7, daysToClose("7", domain.StatusClosed, &req, &closed))
	// Negative column falls through to the date difference.
	assert.Equal(t, 5, daysToClose("-1", domain.StatusClosed, &req, &closed))
	// Whole days truncate.
	assert.Equal(t, 5, daysToClose("", domain.StatusClosed, &req, &closed))
	// Negative difference clamps to zero.
	assert.Equal(t, 0, daysToClose("", domain.StatusClosed, &req, &before))
	// Open requests have no resolution time.
	assert.Equal(t, -1, daysToClose("", domain.StatusOpen, &req, &closed))
	// Missing dates mean unknown.
	assert.Equal(t, -1, daysToClose("", domain.StatusClosed, &req, nil))
}
