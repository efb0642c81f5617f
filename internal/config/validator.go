package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for:
//   - Required fields
//   - Forbidden pairs with a missing kind, or listed twice
//   - Negative sizes and timeouts
func Validate(cfg *Config) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string

	seen := make(map[[2]string]int)
	for i, p := range cfg.Rules.Forbidden {
		if p.Source == "" {
			errs = append(errs, fmt.Sprintf("rules.forbidden[%d]: source is required", i))
		}
		if p.Target == "" {
			errs = append(errs, fmt.Sprintf("rules.forbidden[%d]: target is required", i))
		}
		key := [2]string{p.Source, p.Target}
		if prev, ok := seen[key]; ok {
			errs = append(errs, fmt.Sprintf("rules.forbidden[%d]: duplicate of rules.forbidden[%d] (%s -> %s)", i, prev, p.Source, p.Target))
		} else {
			seen[key] = i
		}
	}

	if cfg.Catalog.TimeoutMs < 0 {
		errs = append(errs, "catalog.timeout_ms must not be negative")
	}
	if cfg.Editor.QueueDepth < 0 {
		errs = append(errs, "editor.queue_depth must not be negative")
	}
	if cfg.Editor.EventTimeoutMs < 0 {
		errs = append(errs, "editor.event_timeout_ms must not be negative")
	}
	if cfg.Editor.MaxEditors < 0 {
		errs = append(errs, "editor.max_editors must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
