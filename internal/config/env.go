package config

import (
	"fmt"
	"strings"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "DRILLSIM_"

// envKeys maps variable names (without EnvPrefix) to config paths.
var envKeys = map[string][]string{
	"START_DEPTH":    {"start_depth"},
	"END_DEPTH":      {"end_depth"},
	"STEP":           {"step"},
	"SEED":           {"seed"},
	"DIRECTORY":      {"output", "directory"},
	"PREFIX":         {"output", "prefix"},
	"FORMAT":         {"output", "format"},
	"MAX_ATTEMPTS":   {"output", "max_attempts"},
	"REDIS_ADDR":     {"redis", "addr"},
	"REDIS_PASSWORD": {"redis", "password"},
	"REDIS_DB":       {"redis", "db"},
	"REDIS_PREFIX":   {"redis", "prefix"},
	"REDIS_LOCK_TTL": {"redis", "lock_ttl"},
	"PORT":           {"server", "port"},
	"METRICS":        {"server", "metrics"},
	"LOG_LEVEL":      {"log", "level"},
	"LOG_JSON":       {"log", "json"},
}

// stepPrefix marks per-channel overrides, e.g. DRILLSIM_STEP_ROP=1.5.
const stepPrefix = "STEP_"

// ApplyEnv overlays DRILLSIM_* variables from environ (os.Environ format) on cfg.
// Unknown DRILLSIM_* names are ignored.
func ApplyEnv(cfg *Config, environ []string) error {
	raw := map[string]any{}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		name = strings.TrimPrefix(name, EnvPrefix)

		if path, ok := envKeys[name]; ok {
			set(raw, path, value)
			continue
		}
		if channel, ok := strings.CutPrefix(name, stepPrefix); ok && channel != "" {
			set(raw, []string{"max_steps", strings.ToLower(channel)}, value)
		}
	}
	if len(raw) == 0 {
		return nil
	}
	if err := decode(raw, cfg); err != nil {
		return fmt.Errorf("failed to decode %s* environment: %w", EnvPrefix, err)
	}
	return nil
}

func set(raw map[string]any, path []string, value string) {
	m := raw
	for _, key := range path[:len(path)-1] {
		child, ok := m[key].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[key] = child
		}
		m = child
	}
	m[path[len(path)-1]] = value
}
