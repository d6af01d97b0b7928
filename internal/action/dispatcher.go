// Package action turns confirmed edge hits into external commands.
package action

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/1broseidon/edges/internal/edge"
)

// Dispatcher looks up the command for a zone and hands it to a Launcher.
// The table can be swapped while the daemon runs; each dispatch reads one
// consistent table.
type Dispatcher struct {
	table    atomic.Pointer[Table]
	block    atomic.Bool
	launcher Launcher
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over table.
func NewDispatcher(table Table, launcher Launcher, block bool, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := &Dispatcher{launcher: launcher, logger: logger}
	d.table.Store(&table)
	d.block.Store(block)
	return d
}

// Table returns the table currently in use.
func (d *Dispatcher) Table() Table {
	return *d.table.Load()
}

// Block reports whether launches wait for the child to exit.
func (d *Dispatcher) Block() bool {
	return d.block.Load()
}

// Update replaces the command table and blocking policy.
func (d *Dispatcher) Update(table Table, block bool) {
	d.table.Store(&table)
	d.block.Store(block)
}

// Dispatch runs the command configured for zone. A zone without a command,
// or whose command is only whitespace, is a no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, zone edge.Zone) error {
	table := d.table.Load()
	cmd, ok := table.Lookup(zone)
	if !ok {
		d.logger.Debug("no command configured", "edge", zone.String())
		return nil
	}

	args := Tokenize(cmd)
	if len(args) == 0 {
		return nil
	}

	block := d.block.Load()
	d.logger.Debug("running command", "edge", zone.String(), "command", strings.Join(args, " "), "block", block)
	return d.launcher.Launch(ctx, args, block)
}
