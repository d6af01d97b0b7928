package runtimepath

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/edges-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPathAndLockPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if !strings.HasSuffix(socket, "/edges.sock") {
		t.Fatalf("SocketPath() = %q, missing suffix", socket)
	}

	lock, err := LockPath()
	if err != nil {
		t.Fatalf("LockPath() error: %v", err)
	}
	if !strings.HasSuffix(lock, "/edges.lock") {
		t.Fatalf("LockPath() = %q, missing suffix", lock)
	}
}

func TestLock_Exclusive(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	first, err := Lock()
	if err != nil {
		t.Fatalf("first Lock() error: %v", err)
	}

	if _, err := Lock(); !errors.Is(err, ErrLocked) {
		t.Fatalf("second Lock() error = %v, want ErrLocked", err)
	}

	first.Close()
	again, err := Lock()
	if err != nil {
		t.Fatalf("Lock() after release error: %v", err)
	}
	again.Close()
}
