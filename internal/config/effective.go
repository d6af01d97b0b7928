package config

import (
	"fmt"

	"github.com/1broseidon/edges/internal/edge"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw on top of DefaultConfig. Edge names in
// commands are normalized to their canonical spelling.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	for _, name := range sortedKeys(raw.Commands) {
		z, err := edge.Parse(name)
		if err != nil {
			return nil, &ValidationError{Path: "commands." + name, Err: err}
		}
		if prev, ok := cfg.Commands[z.String()]; ok && prev != raw.Commands[name] {
			return nil, &ValidationError{Path: "commands." + name, Err: fmt.Errorf("duplicate entry for %s", z)}
		}
		cfg.Commands[z.String()] = raw.Commands[name]
	}
	if raw.DelayMs != nil {
		cfg.DelayMs = *raw.DelayMs
	}
	if raw.Block != nil {
		cfg.Block = *raw.Block
	}
	if raw.DeadZoneRatio != nil {
		cfg.DeadZoneRatio = *raw.DeadZoneRatio
	}
	if raw.PollIntervalMs != nil {
		cfg.PollIntervalMs = *raw.PollIntervalMs
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.NotifyOnFailure != nil {
		cfg.NotifyOnFailure = *raw.NotifyOnFailure
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}

	return cfg, nil
}
