// Package query evaluates filter/search queries against the normalized
// record set. Evaluation is deterministic and order-preserving: results keep
// the relative order of the input records.
package query

import (
	"context"
	"strings"
	"time"

	"github.com/jeisey/phiti/internal/domain"
)

// chunkSize is how many records are examined between context checks. Large
// enough to amortize the check, small enough that cancellation of a stale
// evaluation lands quickly.
const chunkSize = 2048

// Evaluate returns the records matching every present field of q, in input
// order. Runs linear in len(records); ctx is checked between chunks so a
// superseded evaluation can be abandoned (the caller discards the error).
func Evaluate(ctx context.Context, records []*domain.Record, q domain.FilterQuery, now time.Time) ([]*domain.Record, error) {
	cutoff, hasCutoff := q.DateRange.Cutoff(now)
	term := strings.ToLower(strings.TrimSpace(q.SearchTerm))

	var result []*domain.Record
	for start := 0; start < len(records); start += chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}
		for _, rec := range records[start:end] {
			if !matches(rec, q, cutoff, hasCutoff, term) {
				continue
			}
			result = append(result, rec)
		}
	}
	return result, nil
}

func matches(rec *domain.Record, q domain.FilterQuery, cutoff time.Time, hasCutoff bool, term string) bool {
	if q.Area != "" && rec.Area != q.Area {
		return false
	}
	if q.ZipCode != "" && rec.ZipCode != q.ZipCode {
		return false
	}
	if !matchesStatus(rec.Status, q) {
		return false
	}
	if hasCutoff {
		if rec.RequestedAt == nil || rec.RequestedAt.Before(cutoff) {
			return false
		}
	}
	if term != "" && !matchesSearch(rec, term) {
		return false
	}
	return true
}

// matchesStatus implements the open-set status selection. With StatusAny the
// predicate is disabled; otherwise only the checked statuses pass, and
// unchecking both is an explicit empty selection, not an error.
func matchesStatus(status string, q domain.FilterQuery) bool {
	if q.StatusAny {
		return true
	}
	if q.Open && status == domain.StatusOpen {
		return true
	}
	if q.Closed && status == domain.StatusClosed {
		return true
	}
	return false
}

// matchesSearch matches term as a case-insensitive substring against the
// record's text fields and identifiers.
func matchesSearch(rec *domain.Record, term string) bool {
	for _, field := range []string{
		rec.Address,
		rec.StatusNotes,
		rec.Area,
		rec.ZipCode,
		rec.ID,
		rec.ServiceRequestID,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
