// Package cursor tracks how much of a result sequence has been handed to the
// display surface. The cursor never owns the records; it only materializes
// batches out of a fixed, already-ordered result slice.
package cursor

import (
	"math/rand"

	"github.com/jeisey/phiti/internal/domain"
)

// Cursor pages through one query's result sequence. Offset is monotone within
// the life of the sequence and resets only with Reset or a new Cursor.
type Cursor struct {
	results []*domain.Record
	offset  int
}

// New wraps a result sequence. The slice is not copied; callers hand over a
// snapshot that no one mutates.
func New(results []*domain.Record) *Cursor {
	return &Cursor{results: results}
}

// Len returns the total size of the result sequence.
func (c *Cursor) Len() int { return len(c.results) }

// Offset returns how many records have been materialized so far.
func (c *Cursor) Offset() int { return c.offset }

// Exhausted reports whether every record has been handed out. The display
// uses this to detach its "load more" trigger.
func (c *Cursor) Exhausted() bool { return c.offset >= len(c.results) }

// NextBatch returns up to n not-yet-materialized records and advances the
// offset by the count returned. Returns an empty batch once exhausted.
func (c *Cursor) NextBatch(n int) []*domain.Record {
	if n <= 0 || c.Exhausted() {
		return nil
	}
	end := c.offset + n
	if end > len(c.results) {
		end = len(c.results)
	}
	batch := c.results[c.offset:end]
	c.offset = end
	return batch
}

// PickRandom returns one uniformly random record from the entire result
// sequence, independent of the offset. Returns nil on an empty sequence.
func (c *Cursor) PickRandom() *domain.Record {
	if len(c.results) == 0 {
		return nil
	}
	return c.results[rand.Intn(len(c.results))]
}

// At returns the record at position i, or nil when out of range.
func (c *Cursor) At(i int) *domain.Record {
	if i < 0 || i >= len(c.results) {
		return nil
	}
	return c.results[i]
}

// IndexOf returns the position of the record with the given id, or -1.
func (c *Cursor) IndexOf(id string) int {
	for i, rec := range c.results {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

// Reset rewinds the offset to zero without discarding the result sequence.
// Used when the same query is re-rendered from the top.
func (c *Cursor) Reset() { c.offset = 0 }
