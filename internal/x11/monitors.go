package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil/xinerama"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors retrieves all active monitors using XRandR, in CRTC order.
// When RandR reports nothing (some nested or virtual servers), Xinerama
// heads are used instead.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	monitors, err := c.randrMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) > 0 {
		return monitors, nil
	}
	return c.xineramaMonitors()
}

func (c *Connection) randrMonitors() ([]Monitor, error) {
	resources, err := randr.GetScreenResourcesCurrent(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor

	// Query each CRTC for active monitors
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

func (c *Connection) xineramaMonitors() ([]Monitor, error) {
	if !c.XUtil.ExtInitialized("XINERAMA") {
		return nil, nil
	}
	heads, err := xinerama.PhysicalHeads(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("xinerama heads: %w", err)
	}

	monitors := make([]Monitor, 0, len(heads))
	for i, head := range heads {
		x, y, w, h := head.Pieces()
		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   fmt.Sprintf("Xinerama%d", i),
			X:      x,
			Y:      y,
			Width:  w,
			Height: h,
		})
	}
	return monitors, nil
}
