package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	"github.com/jeisey/phiti/internal/cursor"
	"github.com/jeisey/phiti/internal/domain"
	"github.com/jeisey/phiti/internal/facet"
	"github.com/jeisey/phiti/internal/feed"
	"github.com/jeisey/phiti/internal/session"
	"github.com/jeisey/phiti/internal/share"
)

// searchDebounce is how long the search input must be quiet before the query
// re-evaluates.
const searchDebounce = 300 * time.Millisecond

// Filter panel rows, navigated with up/down.
const (
	rowArea = iota
	rowZip
	rowRange
	rowOpen
	rowClosed
	rowSearch
	rowCount
)

// dateRanges are the values the date-range row cycles through.
var dateRanges = []domain.DateRange{
	domain.RangeAll,
	domain.RangeLastWeek,
	domain.RangeLastMonth,
	domain.RangeLast3Month,
	domain.RangeLastYear,
}

var rangeLabels = map[domain.DateRange]string{
	domain.RangeAll:        "All Time",
	domain.RangeLastWeek:   "Last Week",
	domain.RangeLastMonth:  "Last Month",
	domain.RangeLast3Month: "Last 3 Months",
	domain.RangeLastYear:   "Last Year",
}

// BrowseModel is the main screen: filter panel, viewer pane and gallery.
type BrowseModel struct {
	sess   *session.Session
	client *feed.Client
	ctx    context.Context
	opts   Options

	keys KeyMap
	help HelpModel

	width  int
	height int

	// Filter panel state. Index 0 in areas/zips means "all".
	areas     []string
	zips      []string
	areaIdx   int
	zipIdx    int
	rangeIdx  int
	open      bool
	closed    bool
	search    textinput.Model
	searchSeq int

	focusFilters bool
	filterRow    int

	// Result state.
	results  *cursor.Cursor
	gallery  []*domain.Record
	selected int
	current  *domain.Record
	dead     map[string]bool

	showHelp   bool
	showShare  bool
	emptyState bool
	mediaGone  bool
	statusLine string
	err        error
}

// NewBrowseModel creates the browse screen over a loaded session.
func NewBrowseModel(ctx context.Context, sess *session.Session, client *feed.Client, opts Options) BrowseModel {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 12
	}

	ti := textinput.New()
	ti.Placeholder = "address, notes, zip, id..."
	ti.CharLimit = 80
	ti.Width = 24

	keys := DefaultKeyMap()
	m := BrowseModel{
		sess:         sess,
		client:       client,
		ctx:          ctx,
		opts:         opts,
		keys:         keys,
		help:         NewHelpModel(keys),
		open:         true,
		closed:       true,
		search:       ti,
		focusFilters: true,
		dead:         map[string]bool{},
	}
	m.reloadFacets()
	return m
}

// Init evaluates the initial query, honoring a deep-linked record id.
func (m BrowseModel) Init() tea.Cmd {
	if m.opts.SharedID != "" {
		return m.resolveShared(m.opts.SharedID)
	}
	return m.applyFilter("")
}

// Update handles messages for the browse screen.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case dataLoadedMsg:
		// Reload finished; facets may have changed.
		m.reloadFacets()
		m.dead = map[string]bool{}
		return m, m.applyFilter("")

	case resultsMsg:
		return m.installResults(msg)

	case searchDebounceMsg:
		if msg.seq != m.searchSeq {
			return m, nil // superseded by later keystrokes
		}
		return m, m.applyFilter("")

	case mediaCheckedMsg:
		return m.handleMediaChecked(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the search input has focus it swallows everything except
	// escape and enter.
	if m.search.Focused() {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.search.Blur()
			return m, nil
		case msg.String() == "enter":
			m.search.Blur()
			m.searchSeq++
			return m, m.applyFilter("")
		default:
			var cmd tea.Cmd
			before := m.search.Value()
			m.search, cmd = m.search.Update(msg)
			if m.search.Value() != before {
				m.searchSeq++
				return m, tea.Batch(cmd, m.debounceSearch())
			}
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.showHelp = false
		m.showShare = false
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		m.focusFilters = !m.focusFilters
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.focusFilters = true
		m.filterRow = rowSearch
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Random):
		return m.pickRandom()

	case key.Matches(msg, m.keys.Next):
		return m.advance(true)

	case key.Matches(msg, m.keys.LoadMore):
		return m.loadMore()

	case key.Matches(msg, m.keys.Open):
		if m.current != nil {
			_ = browser.OpenURL(m.current.MediaURL)
		}
		return m, nil

	case key.Matches(msg, m.keys.Share):
		m.showShare = !m.showShare && m.current != nil
		return m, nil

	case key.Matches(msg, m.keys.Tweet):
		if m.current != nil {
			loc := share.Locator(m.opts.ShareBaseURL, m.current)
			_ = browser.OpenURL(share.TweetURL(loc))
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		m.statusLine = "Reloading data..."
		return m, m.reload()

	case key.Matches(msg, m.keys.Up):
		return m.moveUp()

	case key.Matches(msg, m.keys.Down):
		return m.moveDown()

	case key.Matches(msg, m.keys.Left):
		return m.cycleValue(-1)

	case key.Matches(msg, m.keys.Right):
		return m.cycleValue(1)
	}

	return m, nil
}

func (m BrowseModel) moveUp() (tea.Model, tea.Cmd) {
	if m.focusFilters {
		if m.filterRow > 0 {
			m.filterRow--
		}
		return m, nil
	}
	if m.selected > 0 {
		m.selected--
		return m.selectCurrent()
	}
	return m, nil
}

func (m BrowseModel) moveDown() (tea.Model, tea.Cmd) {
	if m.focusFilters {
		if m.filterRow < rowCount-1 {
			m.filterRow++
		}
		return m, nil
	}
	return m.advance(false)
}

// cycleValue changes the focused filter row's value and re-evaluates.
func (m BrowseModel) cycleValue(dir int) (tea.Model, tea.Cmd) {
	if !m.focusFilters {
		return m, nil
	}

	switch m.filterRow {
	case rowArea:
		m.areaIdx = wrap(m.areaIdx+dir, len(m.areas))
		// Scope the zip choices to the selected area.
		m.zips = append([]string{""}, m.sess.ZipsForArea(m.areas[m.areaIdx])...)
		m.zipIdx = 0
	case rowZip:
		m.zipIdx = wrap(m.zipIdx+dir, len(m.zips))
	case rowRange:
		m.rangeIdx = wrap(m.rangeIdx+dir, len(dateRanges))
	case rowOpen:
		m.open = !m.open
	case rowClosed:
		m.closed = !m.closed
	case rowSearch:
		return m, m.search.Focus()
	}
	return m, m.applyFilter("")
}

// currentQuery assembles the FilterQuery from the panel state.
func (m BrowseModel) currentQuery() domain.FilterQuery {
	return domain.FilterQuery{
		Area:       m.areas[m.areaIdx],
		ZipCode:    m.zips[m.zipIdx],
		Open:       m.open,
		Closed:     m.closed,
		DateRange:  dateRanges[m.rangeIdx],
		SearchTerm: m.search.Value(),
	}
}

// applyFilter evaluates the panel state off the UI loop. Stale evaluations
// (superseded by a newer filter change) resolve to nil and are dropped.
func (m BrowseModel) applyFilter(followID string) tea.Cmd {
	q := m.currentQuery()
	sess := m.sess
	ctx := m.ctx
	return func() tea.Msg {
		c, err := sess.SetFilter(ctx, q)
		if err != nil {
			if errors.Is(err, session.ErrStaleQuery) {
				return nil
			}
			return ErrorMsg{Err: err}
		}
		return resultsMsg{cursor: c, followID: followID}
	}
}

func (m BrowseModel) debounceSearch() tea.Cmd {
	seq := m.searchSeq
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

func (m BrowseModel) reload() tea.Cmd {
	sess := m.sess
	ctx := m.ctx
	return func() tea.Msg {
		if err := sess.Load(ctx); err != nil {
			return ErrorMsg{Err: err}
		}
		return dataLoadedMsg{}
	}
}

func (m BrowseModel) resolveShared(id string) tea.Cmd {
	sess := m.sess
	ctx := m.ctx
	return func() tea.Msg {
		c, _, err := sess.ResolveShared(ctx, id)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return resultsMsg{cursor: c, followID: id}
	}
}

// installResults swaps in a freshly evaluated cursor and materializes the
// first gallery page.
func (m BrowseModel) installResults(msg resultsMsg) (tea.Model, tea.Cmd) {
	m.results = msg.cursor
	m.results.Reset()
	m.gallery = nil
	m.selected = 0
	m.current = nil
	m.err = nil
	m.mediaGone = false
	m.showShare = false

	m.gallery = append(m.gallery, m.results.NextBatch(m.opts.BatchSize)...)

	// Deep link: keep materializing until the followed record is in view.
	if msg.followID != "" {
		idx := m.results.IndexOf(msg.followID)
		for idx >= len(m.gallery) && !m.results.Exhausted() {
			m.gallery = append(m.gallery, m.results.NextBatch(m.opts.BatchSize)...)
		}
		if idx >= 0 && idx < len(m.gallery) {
			m.selected = idx
		}
	}

	m.emptyState = m.results.Len() == 0
	s := m.sess.Stats()
	m.statusLine = fmt.Sprintf("%d matches | (%d) Closed | (%d) Open", s.Total, s.ClosedCount, s.OpenCount)

	if m.emptyState {
		return m, nil
	}
	return m.selectCurrent()
}

// selectCurrent points the viewer at the selected gallery record and probes
// its media URL so dead images are skipped instead of rendered broken.
func (m BrowseModel) selectCurrent() (tea.Model, tea.Cmd) {
	if m.selected < 0 || m.selected >= len(m.gallery) {
		m.current = nil
		return m, nil
	}
	m.current = m.gallery[m.selected]
	m.mediaGone = false
	m.showShare = false
	if m.dead[m.current.ID] {
		if m.allDead() {
			m.current = nil
			m.mediaGone = true
			return m, nil
		}
		return m.advance(true)
	}
	return m, m.probeMedia(m.current)
}

func (m BrowseModel) probeMedia(rec *domain.Record) tea.Cmd {
	client := m.client
	ctx := m.ctx
	id, url := rec.ID, rec.MediaURL
	return func() tea.Msg {
		if client == nil {
			return mediaCheckedMsg{id: id}
		}
		return mediaCheckedMsg{id: id, err: client.CheckMedia(ctx, url)}
	}
}

// handleMediaChecked records a dead media URL and advances to the next
// displayable record. When every record in the result set has failed, the
// viewer surfaces an empty state instead of retrying forever.
func (m BrowseModel) handleMediaChecked(msg mediaCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		return m, nil
	}
	m.dead[msg.id] = true
	if m.current == nil || m.current.ID != msg.id {
		return m, nil
	}

	if m.allDead() {
		m.current = nil
		m.mediaGone = true
		return m, nil
	}
	return m.advance(true)
}

// allDead reports whether every record in the current result set has a dead
// media URL.
func (m *BrowseModel) allDead() bool {
	if m.results == nil {
		return true
	}
	for i := 0; i < m.results.Len(); i++ {
		if !m.dead[m.results.At(i).ID] {
			return false
		}
	}
	return true
}

// advance moves the selection forward, materializing further batches as
// needed. With wrap it cycles to the start once the sequence is exhausted,
// matching the original next-image rotation.
func (m BrowseModel) advance(wrapAround bool) (tea.Model, tea.Cmd) {
	if m.results == nil || m.results.Len() == 0 {
		return m, nil
	}

	next := m.selected + 1
	if next >= len(m.gallery) {
		if !m.results.Exhausted() {
			m.gallery = append(m.gallery, m.results.NextBatch(m.opts.BatchSize)...)
		} else if wrapAround {
			next = 0
		}
	}
	if next >= len(m.gallery) {
		return m, nil
	}
	m.selected = next
	return m.selectCurrent()
}

func (m BrowseModel) loadMore() (tea.Model, tea.Cmd) {
	if m.results == nil || m.results.Exhausted() {
		return m, nil // trigger detached once the sequence is drained
	}
	m.gallery = append(m.gallery, m.results.NextBatch(m.opts.BatchSize)...)
	return m, nil
}

func (m BrowseModel) pickRandom() (tea.Model, tea.Cmd) {
	if m.results == nil {
		return m, nil
	}
	rec := m.results.PickRandom()
	if rec == nil {
		return m, nil
	}

	// If the pick is already materialized, move the selection to it;
	// otherwise show it directly without touching pagination.
	for i, g := range m.gallery {
		if g.ID == rec.ID {
			m.selected = i
			return m.selectCurrent()
		}
	}
	m.current = rec
	m.selected = -1
	m.mediaGone = false
	m.showShare = false
	return m, m.probeMedia(rec)
}

// reloadFacets refreshes the filter choices from the session.
func (m *BrowseModel) reloadFacets() {
	facets, err := m.sess.Facets()
	if err != nil {
		m.err = err
		return
	}
	m.areas = append([]string{""}, facets.Areas...)
	m.zips = append([]string{""}, facets.PreviewZips(facet.DefaultZipPreview)...)
	m.areaIdx, m.zipIdx = 0, 0
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// View renders the browse screen.
func (m BrowseModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)) +
			HelpStyle.Render("\npress r to reload, q to quit")
	}

	left := m.renderFilters()
	right := m.renderViewer()
	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	sections := []string{
		TitleStyle.Render("phiti · Philadelphia graffiti explorer"),
		panes,
		m.renderGallery(),
		StatusStyle.Render(m.statusLine),
	}
	if m.showHelp {
		sections = append(sections, m.help.View(m.width))
	} else {
		sections = append(sections, HelpStyle.Render("? help  ·  tab switch pane  ·  q quit"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
