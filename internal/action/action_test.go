package action

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/1broseidon/edges/internal/edge"
)

type launch struct {
	args  []string
	block bool
}

type fakeLauncher struct {
	calls []launch
	err   error
}

func (f *fakeLauncher) Launch(_ context.Context, args []string, block bool) error {
	f.calls = append(f.calls, launch{args: append([]string(nil), args...), block: block})
	return f.err
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"lock-screen", []string{"lock-screen"}},
		{"  notify-send   hello\tworld ", []string{"notify-send", "hello", "world"}},
		{`sh -c "echo hi"`, []string{"sh", "-c", `"echo`, `hi"`}},
		{"   ", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := Tokenize(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewTable(t *testing.T) {
	table, err := NewTable(map[string]string{
		"top-left": "lock-screen",
		"bottom":   "rofi -show drun",
	})
	if err != nil {
		t.Fatalf("NewTable error: %v", err)
	}
	if cmd, ok := table.Lookup(edge.TopLeft); !ok || cmd != "lock-screen" {
		t.Fatalf("Lookup(top-left) = %q, %v", cmd, ok)
	}
	if _, ok := table.Lookup(edge.Right); ok {
		t.Fatal("expected right to be unconfigured")
	}
	if _, ok := table.Lookup(edge.None); ok {
		t.Fatal("None must never have a command")
	}

	got := table.Configured()
	if len(got) != 2 || got["bottom"] != "rofi -show drun" {
		t.Fatalf("Configured() = %v", got)
	}

	if _, err := NewTable(map[string]string{"center": "x"}); err == nil {
		t.Fatal("expected unknown zone to be rejected")
	}
}

func TestDispatch(t *testing.T) {
	var table Table
	table.Set(edge.TopLeft, "lock-screen --now")
	table.Set(edge.Left, "   ")

	fl := &fakeLauncher{}
	d := NewDispatcher(table, fl, true, nil)

	if err := d.Dispatch(context.Background(), edge.TopLeft); err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	if err := d.Dispatch(context.Background(), edge.Left); err != nil {
		t.Fatalf("Dispatch(blank) error: %v", err)
	}
	if err := d.Dispatch(context.Background(), edge.Bottom); err != nil {
		t.Fatalf("Dispatch(unset) error: %v", err)
	}
	if err := d.Dispatch(context.Background(), edge.None); err != nil {
		t.Fatalf("Dispatch(None) error: %v", err)
	}

	want := []launch{{args: []string{"lock-screen", "--now"}, block: true}}
	if !reflect.DeepEqual(fl.calls, want) {
		t.Fatalf("launches = %+v, want %+v", fl.calls, want)
	}
}

func TestDispatch_PropagatesLaunchError(t *testing.T) {
	var table Table
	table.Set(edge.Top, "missing-binary")
	fl := &fakeLauncher{err: &LaunchError{Args: []string{"missing-binary"}, Err: exec.ErrNotFound}}
	d := NewDispatcher(table, fl, false, nil)

	err := d.Dispatch(context.Background(), edge.Top)
	var le *LaunchError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LaunchError, got %v", err)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("expected wrapped exec.ErrNotFound, got %v", err)
	}
}

func TestDispatcher_Update(t *testing.T) {
	fl := &fakeLauncher{}
	d := NewDispatcher(Table{}, fl, false, nil)

	var next Table
	next.Set(edge.Right, "next-workspace")
	d.Update(next, true)

	if !d.Block() {
		t.Fatal("expected block to be updated")
	}
	if err := d.Dispatch(context.Background(), edge.Right); err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	if len(fl.calls) != 1 || fl.calls[0].args[0] != "next-workspace" {
		t.Fatalf("unexpected launches: %+v", fl.calls)
	}
}

func TestExecLauncher_BlockWaitsForChild(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	marker := filepath.Join(dir, "done")
	script := filepath.Join(dir, "touch.sh")
	if err := os.WriteFile(script, []byte("#!"+sh+"\nsleep 0.1\n: > \""+marker+"\"\n"), 0755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	l := &ExecLauncher{}
	if err := l.Launch(context.Background(), []string{script}, true); err != nil {
		t.Fatalf("Launch error: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("expected blocking launch to wait for the child: %v", err)
	}
}

func TestExecLauncher_FireAndForget(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	marker := filepath.Join(dir, "done")

	l := &ExecLauncher{}
	start := time.Now()
	if err := l.Launch(context.Background(), []string{sh, "-c", "sleep 0.2; : > " + marker}, false); err != nil {
		t.Fatalf("Launch error: %v", err)
	}
	if time.Since(start) > 150*time.Millisecond {
		t.Fatal("fire-and-forget launch should return before the child exits")
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(marker); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("child never ran")
}

func TestExecLauncher_MissingBinary(t *testing.T) {
	l := &ExecLauncher{}
	err := l.Launch(context.Background(), []string{"/nonexistent/edges-test-binary"}, false)
	var le *LaunchError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LaunchError, got %v", err)
	}

	if err := l.Launch(context.Background(), nil, false); !errors.Is(err, ErrEmptyCommand) {
		t.Fatalf("expected ErrEmptyCommand, got %v", err)
	}
}
