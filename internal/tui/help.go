package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

var helpOverlayStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(1, 2).
	MarginTop(1)

// HelpModel renders the key-binding overlay for the browse screen.
type HelpModel struct {
	help help.Model
	keys KeyMap
}

// NewHelpModel creates the overlay over the browse key map.
func NewHelpModel(keys KeyMap) HelpModel {
	h := help.New()
	h.ShowAll = true
	return HelpModel{help: h, keys: keys}
}

// View renders the full binding table under a short header.
func (m HelpModel) View(width int) string {
	m.help.Width = width - 8 // border and padding
	body := LabelStyle.Render("Key bindings") + "\n\n" +
		m.help.View(m.keys) +
		HelpStyle.Render("\n\nesc closes this overlay")
	return helpOverlayStyle.Render(body)
}
