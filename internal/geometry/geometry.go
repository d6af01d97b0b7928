// Package geometry resolves which monitor the pointer is on and the bounds
// used to classify it.
package geometry

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMonitors is returned when the display reports zero monitors.
	ErrNoMonitors = errors.New("no monitors reported by the display")
	// ErrPointerOutsideAnyMonitor is returned when no monitor contains the pointer.
	ErrPointerOutsideAnyMonitor = errors.New("pointer is not inside any monitor")
)

// Point is a pointer sample in root-window coordinates.
type Point struct {
	X int
	Y int
}

// Size is the width and height of the root window.
type Size struct {
	Width  int
	Height int
}

// Rect describes a monitor rectangle in root-window coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Bounds holds the inclusive maxima of the active monitor.
type Bounds struct {
	XMax int
	YMax int
}

// OutsideError reports the sample that fell outside every monitor.
type OutsideError struct {
	Point    Point
	Monitors int
}

func (e *OutsideError) Error() string {
	return fmt.Sprintf("pointer at (%d,%d) is outside all %d monitors", e.Point.X, e.Point.Y, e.Monitors)
}

func (e *OutsideError) Unwrap() error {
	return ErrPointerOutsideAnyMonitor
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func Contains(r Rect, p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// MonitorAt returns the index of the first monitor containing p, or -1.
// Overlapping (mirrored) monitors resolve to the earliest in enumeration
// order; X does not expose a stacking order for outputs.
func MonitorAt(p Point, monitors []Rect) int {
	for i := range monitors {
		if Contains(monitors[i], p) {
			return i
		}
	}
	return -1
}

// Resolve returns the bounds of the monitor the pointer is on.
//
// With a single monitor the root window size is used directly. Otherwise the
// containing monitor's far edges are used, but never beyond the root window:
// some servers report monitor rectangles larger than the screen.
func Resolve(p Point, monitors []Rect, root Size) (Bounds, error) {
	if len(monitors) == 0 {
		return Bounds{}, ErrNoMonitors
	}

	b := Bounds{XMax: root.Width - 1, YMax: root.Height - 1}
	if len(monitors) == 1 {
		return b, nil
	}

	i := MonitorAt(p, monitors)
	if i < 0 {
		return Bounds{}, &OutsideError{Point: p, Monitors: len(monitors)}
	}
	m := monitors[i]

	if m.X+m.Width <= b.XMax {
		b.XMax = m.X + m.Width - 1
	}
	if m.Y+m.Height <= b.YMax {
		b.YMax = m.Y + m.Height - 1
	}
	return b, nil
}
