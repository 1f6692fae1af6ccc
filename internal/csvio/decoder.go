// Package csvio decodes the semi-structured CSV feeds the city publishes.
// The feeds are not strictly RFC 4180: rows may have fewer cells than the
// header and cells carry stray whitespace, so the decoder is deliberately
// tolerant. It has no knowledge of the domain schema; callers get rows keyed
// by header name.
package csvio

import (
	"encoding/csv"
	"errors"
	"strings"
)

// ErrNoHeader indicates the input had no header line (empty feed).
var ErrNoHeader = errors.New("csv input has no header line")

// Row is one data line keyed by header name. Headers missing from a short
// line are present with an empty value.
type Row map[string]string

// Decode parses raw CSV text into header-keyed rows.
//
// Quoting follows the feed's actual behavior: a quote toggles in-quote state,
// a doubled quote inside a quoted cell is a literal quote, and records never
// span lines. Cells are trimmed, blank lines are skipped, and short lines are
// padded with empty cells.
func Decode(text string) ([]Row, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, ErrNoHeader
	}

	header := splitLine(lines[0])
	rows := make([]Row, 0, len(lines)-1)

	for _, line := range lines[1:] {
		cells := splitLine(line)
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(cells) {
				row[name] = cells[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Header returns the trimmed header cells of the input without decoding the
// body. Used to sanity-check a feed before committing to a full parse.
func Header(text string) ([]string, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, ErrNoHeader
	}
	return splitLine(lines[0]), nil
}

// splitLines breaks the input into non-blank lines.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// splitLine splits one line on commas, honoring quotes. Each cell is trimmed.
func splitLine(line string) []string {
	var cells []string
	var cell strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				// Doubled quote inside a quoted cell is a literal quote.
				cell.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(ch)
		}
	}
	cells = append(cells, strings.TrimSpace(cell.String()))

	return cells
}

// Encode writes rows back out as CSV in header order, quoting as needed.
// The inverse of Decode for single-line cells.
func Encode(header []string, rows []Row) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(header); err != nil {
		return "", err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, name := range header {
			record[i] = row[name]
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}
