package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/edges/internal/ipc"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	mapStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// StatusTab shows the detector state and the monitor layout.
type StatusTab struct {
	status   *ipc.StatusData
	monitors []ipc.MonitorInfo
	err      string
	width    int
	height   int
}

// SetSnapshot replaces the displayed daemon state.
func (s *StatusTab) SetSnapshot(status *ipc.StatusData, monitors []ipc.MonitorInfo, err error) {
	s.status = status
	s.monitors = monitors
	s.err = ""
	if err != nil {
		s.err = err.Error()
	}
}

// Update handles messages for the status tab.
func (s StatusTab) Update(msg tea.Msg) (StatusTab, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		s.width = msg.Width
		s.height = msg.Height
	}
	return s, nil
}

// View renders the tab.
func (s StatusTab) View() string {
	if s.width == 0 || s.height == 0 {
		return ""
	}
	if s.status == nil {
		msg := "Start the daemon with: edges daemon"
		if s.err != "" {
			msg = s.err + "\n\n" + msg
		}
		return lipgloss.NewStyle().
			Width(s.width).
			Height(s.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render(msg)
	}

	st := s.status
	rows := [][2]string{
		{"state", st.State},
		{"pointer", fmt.Sprintf("%d,%d", st.LastX, st.LastY)},
		{"last edge", orDash(st.LastEdge)},
		{"last hit", orDash(st.LastHit)},
		{"dispatches", fmt.Sprintf("%d", st.Dispatches)},
		{"delay", fmt.Sprintf("%d ms", st.DelayMs)},
		{"block", fmt.Sprintf("%v", st.Block)},
		{"uptime", fmt.Sprintf("%ds", st.UptimeSeconds)},
		{"monitors", summarizeMonitors(s.monitors)},
	}
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(labelStyle.Render(r[0]))
		sb.WriteString(valueStyle.Render(r[1]))
		sb.WriteString("\n")
	}
	if s.err != "" {
		sb.WriteString(dimStyle.Render(s.err))
		sb.WriteString("\n")
	}
	info := sb.String()

	mapHeight := s.height - lipgloss.Height(info) - 1
	if mapHeight < 3 {
		return info
	}
	mapWidth := min(s.width-2, mapHeight*4)
	canvas := renderMonitorMap(s.monitors, st.LastX, st.LastY, mapWidth, mapHeight)
	return lipgloss.JoinVertical(lipgloss.Left, info, mapStyle.Render(strings.Join(canvas, "\n")))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
