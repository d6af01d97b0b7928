// Package tui is an interactive dashboard for a running edges daemon.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/edges/internal/ipc"
)

// pollInterval is how often the dashboard refreshes daemon state.
const pollInterval = time.Second

// DaemonClient is the control surface the dashboard drives. *ipc.Client
// implements it.
type DaemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	Trigger(edge string) error
	Reload() error
}

var _ DaemonClient = (*ipc.Client)(nil)

// Run starts the dashboard and blocks until the user quits.
func Run(client DaemonClient) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
