// Package facet derives the distinct value sets used to populate the filter
// controls. Computation is a pure function of the record set; callers
// recompute whenever the working set changes.
package facet

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jeisey/phiti/internal/domain"
)

// DefaultZipPreview bounds how many zips a selection control shows. The query
// engine still accepts any valid zip, previewed or not.
const DefaultZipPreview = 50

// Facets holds the distinct value sets for the filter controls.
type Facets struct {
	Areas    []string // natural order
	Statuses []string // natural order
	Zips     []string // ascending numeric order
	Years    []int    // ascending
}

// Compute derives the facets from the record set.
func Compute(records []*domain.Record) Facets {
	areas := map[string]struct{}{}
	statuses := map[string]struct{}{}
	zips := map[string]struct{}{}
	years := map[int]struct{}{}

	for _, rec := range records {
		if rec.Area != "" {
			areas[rec.Area] = struct{}{}
		}
		if rec.Status != "" {
			statuses[rec.Status] = struct{}{}
		}
		zips[rec.ZipCode] = struct{}{}
		if y := rec.Year(); y > 0 {
			years[y] = struct{}{}
		}
	}

	f := Facets{
		Areas:    keys(areas),
		Statuses: keys(statuses),
		Zips:     keys(zips),
	}
	sort.Slice(f.Areas, func(i, j int) bool { return NaturalLess(f.Areas[i], f.Areas[j]) })
	sort.Slice(f.Statuses, func(i, j int) bool { return NaturalLess(f.Statuses[i], f.Statuses[j]) })
	// Zips are fixed-width digit strings, so lexicographic is numeric.
	sort.Strings(f.Zips)

	for y := range years {
		f.Years = append(f.Years, y)
	}
	sort.Ints(f.Years)

	return f
}

// PreviewZips caps the zip facet for display in a selection control.
func (f Facets) PreviewZips(n int) []string {
	if n <= 0 || n >= len(f.Zips) {
		return f.Zips
	}
	return f.Zips[:n]
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

// NaturalLess compares strings case-insensitively, ordering embedded digit
// runs by numeric value ("Zone 2" before "Zone 10").
func NaturalLess(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			na, ra := digitRun(a)
			nb, rb := digitRun(b)
			if na != nb {
				return na < nb
			}
			a, b = ra, rb
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool { return unicode.IsDigit(rune(c)) }

// digitRun parses the leading digit run and returns its value and the rest.
func digitRun(s string) (int, string) {
	i := 0
	n := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, s[i:]
}
