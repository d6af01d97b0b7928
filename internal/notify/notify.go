// Package notify raises desktop notifications over the session bus.
package notify

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	method     = busName + ".Notify"

	// expireTimeout is in milliseconds; -1 lets the server decide.
	expireTimeout = int32(-1)
)

// caller is the subset of dbus.BusObject used here.
type caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Notifier sends notifications. Each new notification replaces the
// previous one so repeated failures do not pile up.
type Notifier struct {
	appName string
	obj     caller
	conn    *dbus.Conn

	mu     sync.Mutex
	lastID uint32
}

// New connects to the session bus.
func New(appName string) (*Notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &Notifier{
		appName: appName,
		obj:     conn.Object(busName, objectPath),
		conn:    conn,
	}, nil
}

// Notify shows summary and body.
func (n *Notifier) Notify(summary, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	call := n.obj.Call(method, 0,
		n.appName,
		n.lastID,
		"",
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{},
		expireTimeout,
	)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("notify reply: %w", err)
	}
	n.lastID = id
	return nil
}

// Close releases the bus connection.
func (n *Notifier) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Close()
}
