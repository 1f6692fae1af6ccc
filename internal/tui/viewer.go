package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/jeisey/phiti/internal/domain"
	"github.com/jeisey/phiti/internal/share"
)

const (
	filterPaneWidth = 32
	galleryRows     = 6
)

// renderFilters draws the filter panel.
func (m BrowseModel) renderFilters() string {
	check := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}
	orAll := func(v, all string) string {
		if v == "" {
			return all
		}
		return v
	}

	rows := []string{
		fmt.Sprintf("Area:   %s", orAll(m.areas[m.areaIdx], "All Areas")),
		fmt.Sprintf("Zip:    %s", orAll(m.zips[m.zipIdx], "All Zip Codes")),
		fmt.Sprintf("Dates:  %s", rangeLabels[dateRanges[m.rangeIdx]]),
		fmt.Sprintf("%s Open", check(m.open)),
		fmt.Sprintf("%s Closed", check(m.closed)),
		fmt.Sprintf("Search: %s", m.search.View()),
	}

	var sb strings.Builder
	sb.WriteString(LabelStyle.Render("Filters") + "\n")
	for i, row := range rows {
		style := NormalItemStyle
		prefix := "  "
		if m.focusFilters && i == m.filterRow {
			style = SelectedItemStyle
			prefix = "> "
		}
		sb.WriteString(style.Render(prefix+row) + "\n")
	}

	style := PaneStyle
	if m.focusFilters {
		style = FocusedPaneStyle
	}
	return style.Width(filterPaneWidth).Render(sb.String())
}

// renderViewer draws the record detail pane for the current selection.
func (m BrowseModel) renderViewer() string {
	width := m.width - filterPaneWidth - 8
	if width < 30 {
		width = 30
	}

	style := PaneStyle
	if !m.focusFilters {
		style = FocusedPaneStyle
	}

	if m.emptyState {
		return style.Width(width).Render(
			EmptyStyle.Render("No graffiti images match your filters.") +
				"\n\nAdjust your criteria and try again.")
	}
	if m.mediaGone {
		return style.Width(width).Render(
			EmptyStyle.Render("None of the matching images are still available.") +
				"\n\nAdjust your filters or reload the data.")
	}
	if m.current == nil {
		return style.Width(width).Render("Select a record, or press v for a random image.")
	}

	rec := m.current
	label := func(name, value string) string {
		return LabelStyle.Render(name) + " " + value
	}
	daysToClose := domain.NotAvailable
	if rec.HasDaysToClose() {
		daysToClose = fmt.Sprintf("%d days", rec.DaysToClose)
	}

	lines := []string{
		label("Request:", fmt.Sprintf("%s (#%s)", rec.ServiceRequestID, rec.ID)),
		label("Area:", rec.Area),
		label("Zip:", rec.ZipCode),
		label("Status:", rec.Status),
		label("Reported:", rec.RequestedDisplay),
		label("Closed:", rec.ClosedDisplay),
		label("Time to close:", daysToClose),
		label("Address:", rec.Address),
		label("Notes:", ""),
		wordwrap.String(rec.StatusNotes, width-4),
		"",
		label("Image:", rec.MediaURL),
	}

	if m.showShare {
		loc := share.Locator(m.opts.ShareBaseURL, rec)
		lines = append(lines,
			"",
			LabelStyle.Render("Share link:"),
			wordwrap.String(loc, width-4),
			StatusStyle.Render("t opens a tweet with this link"))
	}

	return style.Width(width).Render(strings.Join(lines, "\n"))
}

// renderGallery draws the materialized slice of the result sequence.
func (m BrowseModel) renderGallery() string {
	if m.results == nil || len(m.gallery) == 0 {
		return ""
	}

	// Show a window of rows around the selection.
	start := 0
	if m.selected >= galleryRows {
		start = m.selected - galleryRows + 1
	}
	end := start + galleryRows
	if end > len(m.gallery) {
		end = len(m.gallery)
	}

	var sb strings.Builder
	sb.WriteString(LabelStyle.Render(fmt.Sprintf("Gallery (%d of %d loaded)", len(m.gallery), m.results.Len())) + "\n")
	for i := start; i < end; i++ {
		rec := m.gallery[i]
		marker := "  "
		style := NormalItemStyle
		if i == m.selected && !m.focusFilters {
			marker = "> "
			style = SelectedItemStyle
		} else if i == m.selected {
			marker = "· "
		}
		line := fmt.Sprintf("%s%-10s %-6s %-8s %s", marker, rec.ID, rec.ZipCode, rec.Status, rec.RequestedDisplay)
		if m.dead[rec.ID] {
			line += "  (image unavailable)"
		}
		sb.WriteString(style.Render(line) + "\n")
	}

	if m.results.Exhausted() {
		sb.WriteString(StatusStyle.Render("all results loaded"))
	} else {
		sb.WriteString(StatusStyle.Render("L to load more"))
	}
	return sb.String()
}
