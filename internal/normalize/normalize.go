// Package normalize maps raw feed rows into typed domain records. Rows that
// fail validation are dropped and logged, never raised: one malformed row must
// not abort the rest of the feed.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeisey/phiti/internal/csvio"
	"github.com/jeisey/phiti/internal/domain"
)

// Column names in the primary feed.
const (
	ColID          = "cartodb_id"
	ColRequestID   = "service_request_id"
	ColStatus      = "status"
	ColStatusNotes = "status_notes"
	ColRequested   = "requested_datetime"
	ColClosed      = "closed_datetime"
	ColAddress     = "address"
	ColZip         = "zipcode"
	ColMediaURL    = "media_url"
	ColTimeToClose = "time_to_close"
)

var (
	// zipRegexp matches a valid 5-digit zip code.
	zipRegexp = regexp.MustCompile(`^\d{5}$`)
	// offsetRegexp matches a trailing timezone offset like "+01" or "+0000".
	offsetRegexp = regexp.MustCompile(`\+\d{2,4}(:\d{2})?$`)
)

// timestampLayouts are tried in order once the timezone suffix is stripped.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006",
}

// displayLayout is how parsed timestamps are shown to the user.
const displayLayout = "Jan 2, 2006"

// Normalizer turns decoded feed rows into domain records.
type Normalizer struct {
	logger *zap.Logger
}

// New creates a Normalizer with the given logger.
func New(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Normalize processes raw rows and returns the displayable records. Rows with
// an invalid zip or media URL are skipped; everything else is recovered with
// placeholders.
func (n *Normalizer) Normalize(rows []csvio.Row) []*domain.Record {
	result := make([]*domain.Record, 0, len(rows))
	dropped := 0

	for i, row := range rows {
		rec, reason := n.normalizeRow(row)
		if rec == nil {
			dropped++
			n.logger.Debug("skipping feed row",
				zap.Int("row", i+1),
				zap.String("reason", reason))
			continue
		}
		result = append(result, rec)
	}

	n.logger.Info("normalized feed rows",
		zap.Int("in", len(rows)),
		zap.Int("out", len(result)),
		zap.Int("dropped", dropped))
	return result
}

// normalizeRow maps one row to a record, or nil with a drop reason.
func (n *Normalizer) normalizeRow(row csvio.Row) (*domain.Record, string) {
	zip := row[ColZip]
	if !zipRegexp.MatchString(zip) {
		return nil, "invalid zip code: " + zip
	}

	mediaURL := row[ColMediaURL]
	if !validMediaURL(mediaURL) {
		return nil, "invalid media url: " + mediaURL
	}

	requestedAt, requestedDisplay := parseTimestamp(row[ColRequested])
	closedAt, closedDisplay := parseTimestamp(row[ColClosed])
	status := row[ColStatus]

	return &domain.Record{
		ID:               row[ColID],
		ServiceRequestID: row[ColRequestID],
		ZipCode:          zip,
		Area:             domain.AreaUnresolved,
		MediaURL:         mediaURL,
		Address:          textOrPlaceholder(row[ColAddress]),
		Status:           status,
		StatusNotes:      textOrPlaceholder(row[ColStatusNotes]),
		RequestedAt:      requestedAt,
		ClosedAt:         closedAt,
		RequestedDisplay: requestedDisplay,
		ClosedDisplay:    closedDisplay,
		DaysToClose:      daysToClose(row[ColTimeToClose], status, requestedAt, closedAt),
	}, ""
}

func validMediaURL(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// parseTimestamp parses a feed timestamp tolerantly. A trailing "Z" or "+NN"
// offset is stripped before trying the known layouts. Returns a nil time and
// the raw string as display when nothing parses; the row is still kept.
func parseTimestamp(raw string) (*time.Time, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.NotAvailable
	}

	cleaned := strings.TrimSuffix(raw, "Z")
	cleaned = offsetRegexp.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return &t, t.Format(displayLayout)
		}
	}
	return nil, raw
}

// daysToClose resolves the resolution time with three fallbacks: a supplied
// non-negative numeric column, then the whole-day difference between the
// parsed dates for closed requests (clamped to >= 0), then unknown (-1).
func daysToClose(column, status string, requestedAt, closedAt *time.Time) int {
	if column != "" {
		if v, err := strconv.ParseFloat(column, 64); err == nil && v >= 0 {
			return int(v)
		}
	}

	if status == domain.StatusClosed && requestedAt != nil && closedAt != nil {
		days := int(closedAt.Sub(*requestedAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		return days
	}

	return -1
}

func textOrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return domain.NotAvailable
	}
	return s
}
