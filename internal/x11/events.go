package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/randr"
)

// ErrDisconnected is returned by WaitEvent once the server connection is gone.
var ErrDisconnected = errors.New("x11 connection closed")

// EventKind is the coarse classification of a server event.
type EventKind int

const (
	KindOther EventKind = iota
	KindScreenChange
)

// ProtocolError wraps an X error delivered on the event stream. It is not
// fatal to the connection.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("x11 protocol error: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// WaitEvent blocks until the server sends an event. It returns
// ErrDisconnected after the connection closes and a *ProtocolError for X
// errors that arrive asynchronously.
func (c *Connection) WaitEvent() (EventKind, error) {
	ev, xerr := c.XUtil.Conn().WaitForEvent()
	if ev == nil && xerr == nil {
		return KindOther, ErrDisconnected
	}
	if xerr != nil {
		return KindOther, &ProtocolError{Err: xerr}
	}
	switch ev.(type) {
	case randr.ScreenChangeNotifyEvent:
		return KindScreenChange, nil
	case randr.NotifyEvent:
		return KindScreenChange, nil
	}
	return KindOther, nil
}
