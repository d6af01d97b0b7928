package x11

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// ErrWayland is returned when the session is Wayland; global pointer
// queries are not available there.
var ErrWayland = errors.New("global pointer query not supported on Wayland")

const (
	randrMajor = 1
	randrMinor = 2
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	randr bool
}

// NewConnection connects to display (empty means $DISPLAY) and initializes
// RandR. It refuses to run inside a Wayland session.
func NewConnection(display string) (*Connection, error) {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return nil, ErrWayland
	}

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("open display: %w", err)
	}

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	if err := c.initRandR(); err != nil {
		xu.Conn().Close()
		return nil, err
	}
	return c, nil
}

func (c *Connection) initRandR() error {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return fmt.Errorf("randr extension not available: %w", err)
	}
	ver, err := randr.QueryVersion(c.XUtil.Conn(), randrMajor, randrMinor).Reply()
	if err != nil {
		return fmt.Errorf("randr query version: %w", err)
	}
	if ver.MajorVersion < randrMajor || (ver.MajorVersion == randrMajor && ver.MinorVersion < randrMinor) {
		return fmt.Errorf("randr %d.%d is too old (need >= %d.%d)", ver.MajorVersion, ver.MinorVersion, randrMajor, randrMinor)
	}
	c.randr = true
	return nil
}

// SelectScreenChanges asks the server for RandR screen-change notifications
// on the root window.
func (c *Connection) SelectScreenChanges() error {
	if !c.randr {
		return nil
	}
	return randr.SelectInputChecked(c.XUtil.Conn(), c.Root, randr.NotifyMaskScreenChange).Check()
}

// QueryPointer returns the pointer position in root coordinates.
func (c *Connection) QueryPointer() (int, int, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("query pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// RootSize returns the current root window size. It is re-read on every
// call so that screen resizes are picked up.
func (c *Connection) RootSize() (int, int, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("root geometry: %w", err)
	}
	return int(geom.Width), int(geom.Height), nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
