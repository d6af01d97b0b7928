package platform

import (
	"github.com/1broseidon/edges/internal/geometry"
)

// EventType classifies events delivered by a Backend.
type EventType int

const (
	// EventOther is any event the daemon does not act on.
	EventOther EventType = iota
	// EventRawMotion reports that the pointer moved, independent of focus.
	EventRawMotion
	// EventScreenChange reports a monitor layout change (hot-plug, mode set).
	EventScreenChange
)

func (t EventType) String() string {
	switch t {
	case EventRawMotion:
		return "raw-motion"
	case EventScreenChange:
		return "screen-change"
	default:
		return "other"
	}
}

// Event is one notification from the display server. Events may carry an
// auxiliary payload owned by the backend; call Release exactly once when
// done with the event.
type Event struct {
	Type    EventType
	release func()
}

// NewEvent creates an event whose payload is returned by release.
func NewEvent(t EventType, release func()) Event {
	return Event{Type: t, release: release}
}

// Release hands the event's payload back to the backend.
func (e Event) Release() {
	if e.release != nil {
		e.release()
	}
}

// Backend abstracts the display-server operations the daemon needs.
type Backend interface {
	// Monitors returns the monitor rectangles in enumeration order.
	Monitors() ([]geometry.Rect, error)
	// RootSize returns the size of the root window.
	RootSize() (geometry.Size, error)
	// QueryPointer returns the pointer's root-window coordinates.
	QueryPointer() (geometry.Point, error)

	// Pending reports, without blocking, whether NextEvent has an event.
	Pending() bool
	// NextEvent pops the oldest pending event.
	NextEvent() (Event, bool)
	// Wait blocks on Fd until events arrive or Interrupt is called.
	Wait() error
	// Fd is the pollable descriptor that becomes readable when events arrive.
	Fd() int
	// Interrupt wakes a blocked Wait.
	Interrupt()

	Close() error
}
