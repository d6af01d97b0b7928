package notify

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
)

type fakeObject struct {
	calls [][]interface{}
	ids   []uint32
	err   error
}

func (f *fakeObject) Call(m string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	if m != method {
		return &dbus.Call{Err: errors.New("unexpected method " + m)}
	}
	f.calls = append(f.calls, args)
	if f.err != nil {
		return &dbus.Call{Err: f.err}
	}
	id := f.ids[0]
	f.ids = f.ids[1:]
	return &dbus.Call{Body: []interface{}{id}}
}

func TestNotify_ReplacesPrevious(t *testing.T) {
	obj := &fakeObject{ids: []uint32{41, 42}}
	n := &Notifier{appName: "edges", obj: obj}

	if err := n.Notify("edges: command failed", "top-left: exec: lock: not found"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if err := n.Notify("edges: command failed", "again"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if len(obj.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(obj.calls))
	}
	first := obj.calls[0]
	if len(first) != 8 {
		t.Fatalf("Notify takes 8 arguments, got %d", len(first))
	}
	if first[0] != "edges" || first[1] != uint32(0) || first[3] != "edges: command failed" {
		t.Fatalf("first call args = %v", first)
	}
	if obj.calls[1][1] != uint32(41) {
		t.Fatalf("second call replaces_id = %v, want 41", obj.calls[1][1])
	}
	if n.lastID != 42 {
		t.Fatalf("lastID = %d, want 42", n.lastID)
	}
}

func TestNotify_CallError(t *testing.T) {
	boom := errors.New("no notification daemon")
	n := &Notifier{appName: "edges", obj: &fakeObject{err: boom}}
	if err := n.Notify("s", "b"); !errors.Is(err, boom) {
		t.Fatalf("Notify error = %v, want %v", err, boom)
	}
}

func TestClose_WithoutConnection(t *testing.T) {
	n := &Notifier{}
	if err := n.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
