// Package config loads the edges configuration file.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/edges/internal/edge"
)

const (
	// MaxDelayMs is the longest confirmation delay accepted.
	MaxDelayMs = 1000

	DefaultPollIntervalMs = 8
	MinPollIntervalMs     = 1
	MaxPollIntervalMs     = 1000
)

// Config is the effective configuration used by the daemon.
type Config struct {
	// Commands maps edge names (top-left, ..., bottom) to command lines.
	Commands        map[string]string `yaml:"commands" toml:"commands" json:"commands"`
	DelayMs         int               `yaml:"delay_ms" toml:"delay_ms" json:"delay_ms"`
	Block           bool              `yaml:"block" toml:"block" json:"block"`
	DeadZoneRatio   float64           `yaml:"dead_zone_ratio" toml:"dead_zone_ratio" json:"dead_zone_ratio"`
	PollIntervalMs  int               `yaml:"poll_interval_ms" toml:"poll_interval_ms" json:"poll_interval_ms"`
	LogLevel        string            `yaml:"log_level" toml:"log_level" json:"log_level"`
	NotifyOnFailure bool              `yaml:"notify_on_failure" toml:"notify_on_failure" json:"notify_on_failure"`
	Display         string            `yaml:"display,omitempty" toml:"display,omitempty" json:"display,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Commands:       map[string]string{},
		DelayMs:        0,
		Block:          false,
		DeadZoneRatio:  edge.DefaultDeadZoneRatio,
		PollIntervalMs: DefaultPollIntervalMs,
		LogLevel:       "info",
	}
}

// Delay returns the confirmation delay, clamped to [0, MaxDelayMs].
func (c *Config) Delay() time.Duration {
	ms := min(max(c.DelayMs, 0), MaxDelayMs)
	return time.Duration(ms) * time.Millisecond
}

// PollInterval returns the pointer sampling period.
func (c *Config) PollInterval() time.Duration {
	ms := c.PollIntervalMs
	if ms < MinPollIntervalMs || ms > MaxPollIntervalMs {
		ms = DefaultPollIntervalMs
	}
	return time.Duration(ms) * time.Millisecond
}

// SetCommand sets the command for the named edge, normalizing the name.
// An empty command removes the entry.
func (c *Config) SetCommand(name, cmd string) error {
	z, err := edge.Parse(name)
	if err != nil {
		return err
	}
	if c.Commands == nil {
		c.Commands = map[string]string{}
	}
	if strings.TrimSpace(cmd) == "" {
		delete(c.Commands, z.String())
		return nil
	}
	c.Commands[z.String()] = cmd
	return nil
}

// Validate checks the configuration for errors. Values that are merely out
// of range are clamped at use and reported by Warnings instead.
func (c *Config) Validate() error {
	if c.Commands == nil {
		return &ValidationError{Path: "commands", Err: fmt.Errorf("commands must not be null")}
	}
	for _, name := range sortedKeys(c.Commands) {
		if _, err := edge.Parse(name); err != nil {
			return &ValidationError{Path: "commands." + name, Err: err}
		}
	}
	if c.DeadZoneRatio < 0 || c.DeadZoneRatio >= 0.5 {
		return &ValidationError{Path: "dead_zone_ratio", Err: fmt.Errorf("dead_zone_ratio must be >= 0 and < 0.5")}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	return nil
}

// Warnings lists settings that will be adjusted at use.
func (c *Config) Warnings() []string {
	if c == nil {
		return nil
	}

	var warnings []string

	if c.DelayMs > MaxDelayMs {
		warnings = append(warnings, fmt.Sprintf("delay_ms %d exceeds %d; using %d", c.DelayMs, MaxDelayMs, MaxDelayMs))
	}
	if c.DelayMs < 0 {
		warnings = append(warnings, fmt.Sprintf("delay_ms %d is negative; using 0", c.DelayMs))
	}
	if c.PollIntervalMs < MinPollIntervalMs || c.PollIntervalMs > MaxPollIntervalMs {
		warnings = append(warnings, fmt.Sprintf("poll_interval_ms %d outside %d..%d; using %d", c.PollIntervalMs, MinPollIntervalMs, MaxPollIntervalMs, DefaultPollIntervalMs))
	}
	for _, name := range sortedKeys(c.Commands) {
		if strings.TrimSpace(c.Commands[name]) == "" {
			warnings = append(warnings, fmt.Sprintf("commands.%s is empty; the edge is disabled", name))
		}
	}
	if len(c.Commands) == 0 {
		warnings = append(warnings, "no commands configured; edges will be detected but nothing will run")
	}

	return warnings
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
