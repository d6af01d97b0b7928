package daemon

import (
	"slices"
	"time"

	"github.com/1broseidon/edges/internal/edge"
	"github.com/1broseidon/edges/internal/geometry"
)

// Status is a point-in-time view of the loop for control clients.
type Status struct {
	State      string
	Last       geometry.Point
	LastEdge   string
	LastHit    time.Time
	Dispatches uint64
	Monitors   []geometry.Rect
	Delay      time.Duration
	Block      bool
	Commands   map[string]string
	StartedAt  time.Time
}

// publish stores a fresh snapshot. hit is the zone just dispatched, or None.
// Only the loop goroutine calls it.
func (d *Daemon) publish(hit edge.Zone) {
	prev := d.status.Load()

	s := &Status{
		State:     d.tracker.State().String(),
		Last:      d.tracker.Last(),
		Monitors:  slices.Clone(d.monitors),
		StartedAt: d.startedAt,
	}
	if prev != nil {
		s.LastEdge = prev.LastEdge
		s.LastHit = prev.LastHit
	}
	if hit != edge.None {
		s.LastEdge = hit.String()
		s.LastHit = time.Now()
	}
	d.status.Store(s)
}

// Status returns the latest snapshot merged with live counters and the
// current command table.
func (d *Daemon) Status() Status {
	s := *d.status.Load()
	s.Monitors = slices.Clone(s.Monitors)
	s.Dispatches = d.dispatches.Load()
	s.Delay = d.Settings().Delay
	s.Block = d.dispatcher.Block()
	table := d.dispatcher.Table()
	s.Commands = table.Configured()
	return s
}

// Monitors returns the monitor layout the loop is using.
func (d *Daemon) Monitors() []geometry.Rect {
	return slices.Clone(d.status.Load().Monitors)
}
