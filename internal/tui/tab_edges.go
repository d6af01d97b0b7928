package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/edges/internal/edge"
	"github.com/1broseidon/edges/internal/ipc"
)

// edgeItem is a list item for one edge zone.
type edgeItem struct {
	name    string
	command string
	lastHit bool
}

func (i edgeItem) Title() string {
	switch {
	case i.lastHit:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Render("●") + " " + i.name
	case i.command != "":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("✓") + " " + i.name
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("·") + " " + i.name
	}
}

func (i edgeItem) Description() string {
	if i.command == "" {
		return "(unbound)"
	}
	return i.command
}

func (i edgeItem) FilterValue() string { return i.name }

// EdgesTab lists the eight zones and their commands.
type EdgesTab struct {
	list   list.Model
	width  int
	height int
}

// NewEdgesTab creates the tab with every zone unbound.
func NewEdgesTab() EdgesTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(buildEdgeItems(nil), delegate, 0, 0)
	l.Title = "Edges"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	return EdgesTab{list: l}
}

func buildEdgeItems(status *ipc.StatusData) []list.Item {
	items := make([]list.Item, 0, edge.Count)
	for _, z := range edge.All() {
		it := edgeItem{name: z.String()}
		if status != nil {
			it.command = status.Commands[it.name]
			it.lastHit = status.LastEdge == it.name
		}
		items = append(items, it)
	}
	return items
}

// SetStatus refreshes commands and the last-hit marker.
func (e *EdgesTab) SetStatus(status *ipc.StatusData) tea.Cmd {
	return e.list.SetItems(buildEdgeItems(status))
}

// Selected returns the highlighted zone name.
func (e EdgesTab) Selected() (string, bool) {
	it, ok := e.list.SelectedItem().(edgeItem)
	if !ok {
		return "", false
	}
	return it.name, true
}

// Update handles messages for the edges tab.
func (e EdgesTab) Update(msg tea.Msg) (EdgesTab, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		e.width = msg.Width
		e.height = msg.Height
		e.list.SetSize(e.width, e.height)
		return e, nil
	}

	var cmd tea.Cmd
	e.list, cmd = e.list.Update(msg)
	return e, cmd
}

// View renders the tab.
func (e EdgesTab) View() string {
	if e.width == 0 || e.height == 0 {
		return ""
	}
	return e.list.View()
}
