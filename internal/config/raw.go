package config

// RawConfig mirrors the file layout with optional fields so that unset keys
// keep their defaults.
type RawConfig struct {
	Commands        map[string]string `yaml:"commands" toml:"commands"`
	DelayMs         *int              `yaml:"delay_ms" toml:"delay_ms"`
	Block           *bool             `yaml:"block" toml:"block"`
	DeadZoneRatio   *float64          `yaml:"dead_zone_ratio" toml:"dead_zone_ratio"`
	PollIntervalMs  *int              `yaml:"poll_interval_ms" toml:"poll_interval_ms"`
	LogLevel        *string           `yaml:"log_level" toml:"log_level"`
	NotifyOnFailure *bool             `yaml:"notify_on_failure" toml:"notify_on_failure"`
	Display         *string           `yaml:"display" toml:"display"`
}

// merge overlays o on r. Command maps merge per key.
func (r RawConfig) merge(o RawConfig) RawConfig {
	out := r

	if o.Commands != nil {
		merged := make(map[string]string, len(r.Commands)+len(o.Commands))
		for k, v := range r.Commands {
			merged[k] = v
		}
		for k, v := range o.Commands {
			merged[k] = v
		}
		out.Commands = merged
	}
	if o.DelayMs != nil {
		out.DelayMs = o.DelayMs
	}
	if o.Block != nil {
		out.Block = o.Block
	}
	if o.DeadZoneRatio != nil {
		out.DeadZoneRatio = o.DeadZoneRatio
	}
	if o.PollIntervalMs != nil {
		out.PollIntervalMs = o.PollIntervalMs
	}
	if o.LogLevel != nil {
		out.LogLevel = o.LogLevel
	}
	if o.NotifyOnFailure != nil {
		out.NotifyOnFailure = o.NotifyOnFailure
	}
	if o.Display != nil {
		out.Display = o.Display
	}
	return out
}
