// Package refindex builds the zip → area lookup from the reference feed and
// back-fills the area on normalized records. Rebuilds swap the index
// atomically so readers never observe a partially built mapping.
package refindex

import (
	"regexp"
	"sort"
	"sync/atomic"

	"github.com/jeisey/phiti/internal/csvio"
	"github.com/jeisey/phiti/internal/domain"
)

// Column names in the reference feed.
const (
	ColZip  = "Zip"
	ColArea = "District"
)

var zipRegexp = regexp.MustCompile(`^\d{5}$`)

// Index is the zip → area lookup. The zero value resolves everything to the
// sentinel.
type Index struct {
	byZip atomic.Pointer[map[string]string]
}

// New returns an empty index.
func New() *Index {
	idx := &Index{}
	empty := map[string]string{}
	idx.byZip.Store(&empty)
	return idx
}

// Build replaces the index contents from reference feed rows. Entries with an
// invalid zip or a placeholder area are skipped. The swap is atomic: lookups
// see either the old mapping or the complete new one.
func (idx *Index) Build(rows []csvio.Row) {
	next := make(map[string]string, len(rows))
	for _, row := range rows {
		zip := row[ColZip]
		area := row[ColArea]
		if !zipRegexp.MatchString(zip) {
			continue
		}
		if area == "" || area == domain.NotAvailable {
			continue
		}
		next[zip] = area
	}
	idx.byZip.Store(&next)
}

// Resolve returns the area for a zip, or the AreaNotFound sentinel.
func (idx *Index) Resolve(zip string) string {
	m := *idx.byZip.Load()
	if area, ok := m[zip]; ok {
		return area
	}
	return domain.AreaNotFound
}

// Len returns the number of mapped zips.
func (idx *Index) Len() int {
	return len(*idx.byZip.Load())
}

// ZipsForArea returns the mapped zips for one area, numerically ordered.
// Used to scope the zip selection control when an area is chosen.
func (idx *Index) ZipsForArea(area string) []string {
	m := *idx.byZip.Load()
	var zips []string
	for zip, a := range m {
		if a == area {
			zips = append(zips, zip)
		}
	}
	sort.Strings(zips)
	return zips
}

// Apply resolves the area on every record in place. Must be called only after
// Build has completed for the current reference feed; records keep the
// unresolved placeholder until then.
func (idx *Index) Apply(records []*domain.Record) {
	for _, rec := range records {
		rec.Area = idx.Resolve(rec.ZipCode)
	}
}
