package tui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/1broseidon/edges/internal/ipc"
)

func TestRenderMonitorMapDualHead(t *testing.T) {
	monitors := []ipc.MonitorInfo{
		{ID: 0, Width: 1920, Height: 1080},
		{ID: 1, X: 1920, Width: 1920, Height: 1080},
	}

	lines := renderMonitorMap(monitors, 0, 0, 40, 10)
	if len(lines) != 10 {
		t.Fatalf("lines = %d, want 10", len(lines))
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != 40 {
			t.Fatalf("line %d width = %d, want 40", i, n)
		}
	}

	first := []rune(lines[0])
	if first[0] != pointerMark {
		t.Fatalf("pointer not drawn at origin: %q", lines[0])
	}
	if first[19] != '┐' || first[20] != '┌' {
		t.Fatalf("monitor boundary not at column 20: %q", lines[0])
	}

	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "0") || !strings.Contains(joined, "1") {
		t.Fatalf("monitor labels missing:\n%s", joined)
	}
}

func TestRenderMonitorMapPointerOutside(t *testing.T) {
	monitors := []ipc.MonitorInfo{{ID: 0, Width: 100, Height: 100}}
	lines := renderMonitorMap(monitors, 500, 500, 20, 5)
	if strings.ContainsRune(strings.Join(lines, ""), pointerMark) {
		t.Fatalf("pointer drawn outside the desktop")
	}
}

func TestRenderMonitorMapEmpty(t *testing.T) {
	lines := renderMonitorMap(nil, 0, 0, 10, 3)
	if len(lines) != 3 || strings.TrimSpace(strings.Join(lines, "")) != "" {
		t.Fatalf("expected blank canvas, got %q", lines)
	}
}

func TestSummarizeMonitors(t *testing.T) {
	tests := []struct {
		monitors []ipc.MonitorInfo
		want     string
	}{
		{nil, "no monitors"},
		{[]ipc.MonitorInfo{{Width: 1920, Height: 1080}}, "1 monitor • 1920×1080 px"},
		{[]ipc.MonitorInfo{{Width: 1920, Height: 1080}, {X: 1920, Width: 1280, Height: 1024}}, "2 monitors • 3200×1080 px desktop"},
	}
	for _, tt := range tests {
		if got := summarizeMonitors(tt.monitors); got != tt.want {
			t.Errorf("summarizeMonitors(%v) = %q, want %q", tt.monitors, got, tt.want)
		}
	}
}
