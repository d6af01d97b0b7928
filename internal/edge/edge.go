// Package edge classifies a pointer position into one of the screen's
// corner or edge zones.
package edge

import (
	"fmt"
	"math"
	"strings"
)

// Zone is a corner or edge of the active monitor.
type Zone int

const (
	TopLeft Zone = iota
	TopRight
	BottomRight
	BottomLeft
	Left
	Top
	Right
	Bottom
	None
)

// Count is the number of active zones (everything except None).
const Count = int(None)

// DefaultDeadZoneRatio is the share of ymax kept free of edge triggers next
// to each corner.
const DefaultDeadZoneRatio = 0.25

var names = [...]string{
	TopLeft:     "top-left",
	TopRight:    "top-right",
	BottomRight: "bottom-right",
	BottomLeft:  "bottom-left",
	Left:        "left",
	Top:         "top",
	Right:       "right",
	Bottom:      "bottom",
	None:        "none",
}

func (z Zone) String() string {
	if z < 0 || int(z) >= len(names) {
		return fmt.Sprintf("Zone(%d)", int(z))
	}
	return names[z]
}

// Valid reports whether z is one of the eight active zones.
func (z Zone) Valid() bool {
	return z >= TopLeft && z < None
}

// All returns the active zones in ordinal order.
func All() []Zone {
	zones := make([]Zone, 0, Count)
	for z := TopLeft; z < None; z++ {
		zones = append(zones, z)
	}
	return zones
}

// Parse maps a zone name to its Zone. Underscores and the compact forms
// used by older configs ("topleft") are accepted.
func Parse(s string) (Zone, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "_", "-")
	for z := TopLeft; z < None; z++ {
		name := names[z]
		if key == name || key == strings.ReplaceAll(name, "-", "") {
			return z, nil
		}
	}
	return None, fmt.Errorf("unknown edge %q (want one of: %s)", s, strings.Join(names[:Count], ", "))
}

// Offset returns the corner dead zone for the given ymax.
func Offset(ymax int, ratio float64) int {
	return int(math.Floor(float64(ymax) * ratio))
}

// Classify maps a coordinate to a zone. Corners take priority and require
// the exact extreme pixel; edges fire only strictly between the dead zones
// at either end.
func Classify(x, y, xmax, ymax, offset int) Zone {
	switch {
	case x == 0 && y == 0:
		return TopLeft
	case x == xmax && y == 0:
		return TopRight
	case x == xmax && y == ymax:
		return BottomRight
	case x == 0 && y == ymax:
		return BottomLeft
	case x == 0 && y > offset && y < ymax-offset:
		return Left
	case y == 0 && x > offset && x < xmax-offset:
		return Top
	case x == xmax && y > offset && y < ymax-offset:
		return Right
	case y == ymax && x > offset && x < xmax-offset:
		return Bottom
	default:
		return None
	}
}
