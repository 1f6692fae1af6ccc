// Package tui provides Bubble Tea models for the interactive viewer.
package tui

import (
	"github.com/jeisey/phiti/internal/cursor"
)

// ErrorMsg is emitted when an operation fails.
type ErrorMsg struct {
	Err error
}

// dataLoadedMsg is emitted when the ingestion pipeline completes.
type dataLoadedMsg struct{}

// resultsMsg carries a freshly evaluated result cursor. followID, when set,
// positions the selection on that record (deep-link start).
type resultsMsg struct {
	cursor   *cursor.Cursor
	followID string
}

// searchDebounceMsg fires after the search input has been quiet. Only the
// message matching the latest sequence number triggers an evaluation.
type searchDebounceMsg struct {
	seq int
}

// mediaCheckedMsg reports the probe of one record's media URL.
type mediaCheckedMsg struct {
	id  string
	err error
}
