package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeisey/phiti/internal/feed"
	"github.com/jeisey/phiti/internal/session"
)

// AppScreen represents the screens in the application flow.
type AppScreen int

const (
	ScreenLoading AppScreen = iota
	ScreenBrowse
)

// Options configures the app model.
type Options struct {
	// SharedID, when set, resolves a deep-linked record after loading.
	SharedID string
	// BatchSize is how many records each gallery page materializes.
	BatchSize int
	// ShareBaseURL overrides the site the share links point at.
	ShareBaseURL string
}

// AppModel is the root Bubble Tea model. It drives the load pipeline and
// hands off to the browse screen once data is in memory.
type AppModel struct {
	sess   *session.Session
	client *feed.Client
	ctx    context.Context
	opts   Options

	currentScreen AppScreen
	browse        *BrowseModel
	spin          spinner.Model
	err           error
}

// NewAppModel creates the root model.
func NewAppModel(ctx context.Context, sess *session.Session, client *feed.Client, opts Options) AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return AppModel{
		sess:          sess,
		client:        client,
		ctx:           ctx,
		opts:          opts,
		currentScreen: ScreenLoading,
		spin:          sp,
	}
}

// Init starts the load pipeline.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadData())
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.currentScreen == ScreenLoading {
				return m, tea.Quit
			}
		case "r":
			// Retry affordance for a failed load.
			if m.currentScreen == ScreenLoading && m.err != nil {
				m.err = nil
				return m, tea.Batch(m.spin.Tick, m.loadData())
			}
		}

	case ErrorMsg:
		if m.currentScreen == ScreenLoading {
			m.err = msg.Err
			return m, nil
		}

	case dataLoadedMsg:
		// A reload from the browse screen keeps its model; only the first
		// load transitions screens.
		if m.currentScreen == ScreenLoading {
			m.currentScreen = ScreenBrowse
			browse := NewBrowseModel(m.ctx, m.sess, m.client, m.opts)
			m.browse = &browse
			return m, tea.Batch(m.browse.Init(), tea.WindowSize())
		}

	case spinner.TickMsg:
		if m.currentScreen == ScreenLoading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}

	if m.currentScreen == ScreenBrowse && m.browse != nil {
		updated, cmd := m.browse.Update(msg)
		if bm, ok := updated.(BrowseModel); ok {
			m.browse = &bm
		}
		return m, cmd
	}

	return m, nil
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.currentScreen == ScreenBrowse && m.browse != nil {
		return m.browse.View()
	}

	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Failed to load application data: %v", m.err)) +
			HelpStyle.Render("\npress r to retry, q to quit")
	}
	return m.spin.View() + " Loading graffiti data...\n\n" +
		HelpStyle.Render("press q to quit")
}

// loadData runs the ingestion pipeline off the UI loop.
func (m AppModel) loadData() tea.Cmd {
	return func() tea.Msg {
		if err := m.sess.Load(m.ctx); err != nil {
			return ErrorMsg{Err: err}
		}
		return dataLoadedMsg{}
	}
}
