package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/edges/internal/edge"
)

// Explain returns the effective value at the given key path and where it
// came from.
//
// Supported paths:
//
//	commands
//	commands.<edge>
//	delay_ms
//	block
//	dead_zone_ratio
//	poll_interval_ms
//	log_level
//	notify_on_failure
//	display
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, canonical, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	for _, p := range []string{path, canonical} {
		if src, ok := res.Sources[p]; ok {
			return value, src, nil
		}
	}
	// Edge names may be spelled differently in the file.
	if strings.HasPrefix(canonical, "commands.") {
		for key, src := range res.Sources {
			name, ok := strings.CutPrefix(key, "commands.")
			if !ok {
				continue
			}
			if z, err := edge.Parse(name); err == nil && "commands."+z.String() == canonical {
				return value, src, nil
			}
		}
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, string, error) {
	parts := strings.Split(path, ".")
	if parts[0] == "commands" {
		switch len(parts) {
		case 1:
			return cfg.Commands, path, nil
		case 2:
			z, err := edge.Parse(parts[1])
			if err != nil {
				return nil, "", err
			}
			return cfg.Commands[z.String()], "commands." + z.String(), nil
		}
		return nil, "", fmt.Errorf("unsupported path %q", path)
	}
	if len(parts) != 1 {
		return nil, "", fmt.Errorf("unsupported path %q", path)
	}

	switch path {
	case "delay_ms":
		return cfg.DelayMs, path, nil
	case "block":
		return cfg.Block, path, nil
	case "dead_zone_ratio":
		return cfg.DeadZoneRatio, path, nil
	case "poll_interval_ms":
		return cfg.PollIntervalMs, path, nil
	case "log_level":
		return cfg.LogLevel, path, nil
	case "notify_on_failure":
		return cfg.NotifyOnFailure, path, nil
	case "display":
		return cfg.Display, path, nil
	}
	return nil, "", fmt.Errorf("unknown path %q", path)
}
