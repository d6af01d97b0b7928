package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_NonTerminalDropsTime(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)
	logger.Info("edge hit", "edge", "top-left")
	logger.Debug("hidden")

	out := buf.String()
	if strings.Contains(out, "time=") {
		t.Fatalf("expected no time attribute, got %q", out)
	}
	if !strings.Contains(out, `msg="edge hit" edge=top-left`) {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered: %q", out)
	}
}

func TestNew_LevelVarChangesAtRuntime(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(slog.LevelWarn)
	logger := New(&buf, &lvl)

	logger.Info("first")
	lvl.Set(slog.LevelDebug)
	logger.Debug("second")

	out := buf.String()
	if strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Fatalf("unexpected output %q", out)
	}
}
