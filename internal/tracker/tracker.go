// Package tracker implements the debounce and delayed-confirmation state
// machine that sits between the classifier and the action dispatcher.
package tracker

import (
	"github.com/1broseidon/edges/internal/edge"
	"github.com/1broseidon/edges/internal/geometry"
)

// State is the tracker's position in the confirmation protocol.
type State int

const (
	Idle State = iota
	SuppressedOnEdge
	PendingConfirm
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SuppressedOnEdge:
		return "suppressed"
	case PendingConfirm:
		return "pending-confirm"
	default:
		return "unknown"
	}
}

// Action tells the event loop what to do with a sample.
type Action int

const (
	// Suppress means the sample repeats the last acted-upon position.
	Suppress Action = iota
	// Ignore means the sample is not on any zone.
	Ignore
	// Confirm means the sample hit Zone; wait the delay, re-sample and call
	// Confirm.
	Confirm
)

// Decision is the result of observing one sample.
type Decision struct {
	Action Action
	Zone   edge.Zone
}

// initial is outside the valid range for the origin so the first real sample
// never compares equal to it.
var initial = geometry.Point{X: 1, Y: 1}

// Tracker holds the last acted-upon pointer position. It is not safe for
// concurrent use; the event loop owns it.
type Tracker struct {
	last  geometry.Point
	state State

	pending edge.Zone
	bounds  geometry.Bounds
	offset  int
}

// New returns a tracker in the Idle state.
func New() *Tracker {
	return &Tracker{last: initial, state: Idle, pending: edge.None}
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// Last returns the last acted-upon sample.
func (t *Tracker) Last() geometry.Point {
	return t.last
}

// Observe feeds one pointer sample through the debounce rules.
//
// A suppressed sample does not move the reference point, so a pointer
// resting on an edge keeps comparing against the position that triggered it
// and never fires twice.
func (t *Tracker) Observe(p geometry.Point, b geometry.Bounds, offset int) Decision {
	if t.repeats(p, b, offset) {
		t.state = SuppressedOnEdge
		return Decision{Action: Suppress, Zone: edge.None}
	}

	zone := edge.Classify(p.X, p.Y, b.XMax, b.YMax, offset)
	if zone == edge.None {
		t.last = p
		t.state = Idle
		return Decision{Action: Ignore, Zone: edge.None}
	}

	t.state = PendingConfirm
	t.pending = zone
	t.bounds = b
	t.offset = offset
	return Decision{Action: Confirm, Zone: zone}
}

// Confirm re-classifies the post-delay sample against the bounds of the
// pending hit. It reports the zone to dispatch and whether the hit held.
// The post-delay sample becomes the new reference point either way.
func (t *Tracker) Confirm(p geometry.Point) (edge.Zone, bool) {
	if t.state != PendingConfirm {
		return edge.None, false
	}

	zone := t.pending
	again := edge.Classify(p.X, p.Y, t.bounds.XMax, t.bounds.YMax, t.offset)

	t.last = p
	t.state = Idle
	t.pending = edge.None

	if again != zone {
		return zone, false
	}
	return zone, true
}

func (t *Tracker) repeats(p geometry.Point, b geometry.Bounds, offset int) bool {
	if p == t.last {
		return true
	}
	if p.X == t.last.X && p.Y > offset && p.Y < b.YMax-offset {
		return true
	}
	if p.Y == t.last.Y && p.X > offset && p.X < b.XMax-offset {
		return true
	}
	return false
}
