package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/edges/internal/ipc"
)

// snapshotMsg carries one poll of the daemon.
type snapshotMsg struct {
	status   *ipc.StatusData
	monitors []ipc.MonitorInfo
	err      error
}

// pollMsg asks for the next snapshot.
type pollMsg struct{}

// actionMsg reports the outcome of a trigger or reload.
type actionMsg struct {
	text string
	err  error
}

// model is the root bubbletea model for the TUI.
type model struct {
	client DaemonClient

	activeTab Tab
	statusTab StatusTab
	edgesTab  EdgesTab

	status *ipc.StatusData
	notice string

	width  int
	height int
}

func newModel(client DaemonClient) model {
	return model{
		client:    client,
		activeTab: TabStatus,
		edgesTab:  NewEdgesTab(),
	}
}

func fetchSnapshot(client DaemonClient) tea.Cmd {
	return func() tea.Msg {
		status, err := client.GetStatus()
		if err != nil {
			return snapshotMsg{err: err}
		}
		mons, err := client.GetMonitors()
		if err != nil {
			return snapshotMsg{status: status, err: err}
		}
		return snapshotMsg{status: status, monitors: mons.Monitors}
	}
}

func schedulePoll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

func triggerEdge(client DaemonClient, name string) tea.Cmd {
	return func() tea.Msg {
		if err := client.Trigger(name); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: "triggered " + name}
	}
}

func reloadConfig(client DaemonClient) tea.Cmd {
	return func() tea.Msg {
		if err := client.Reload(); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: "config reloaded"}
	}
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	return max(m.height-4, 1)
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return fetchSnapshot(m.client)
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabStatus
			return m, nil
		case "2":
			m.activeTab = TabEdges
			return m, nil
		case "r":
			return m, reloadConfig(m.client)
		case "enter":
			if m.activeTab == TabEdges {
				if name, ok := m.edgesTab.Selected(); ok {
					return m, triggerEdge(m.client, name)
				}
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.statusTab, _ = m.statusTab.Update(subMsg)
		m.edgesTab, _ = m.edgesTab.Update(subMsg)
		return m, nil

	case snapshotMsg:
		m.status = msg.status
		m.statusTab.SetSnapshot(msg.status, msg.monitors, msg.err)
		cmd := m.edgesTab.SetStatus(msg.status)
		return m, tea.Batch(cmd, schedulePoll())

	case pollMsg:
		return m, fetchSnapshot(m.client)

	case actionMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = msg.text
		}
		return m, nil
	}

	if m.activeTab == TabEdges {
		var cmd tea.Cmd
		m.edgesTab, cmd = m.edgesTab.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.notice, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.activeTab, m.width)

	var content string
	switch m.activeTab {
	case TabStatus:
		content = m.statusTab.View()
	case TabEdges:
		content = m.edgesTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
