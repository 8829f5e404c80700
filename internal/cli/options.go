package cli

import (
	"fmt"

	"github.com/aretw0/drillsim/internal/config"
)

// RunOptions holds the global flags shared by every command.
type RunOptions struct {
	ConfigPath string // explicit --config; empty means discover in WorkDir
	WorkDir    string
	Debug      bool
	LogJSON    bool
}

// LoadConfig resolves the configuration: defaults, then the config file
// (explicit or discovered), then DRILLSIM_* variables from environ.
// Command flags are applied by the caller afterwards.
func LoadConfig(opts RunOptions, environ []string) (config.Config, string, error) {
	path := opts.ConfigPath
	if path == "" {
		dir := opts.WorkDir
		if dir == "" {
			dir = "."
		}
		path = config.Discover(dir)
	}

	cfg := config.Defaults()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, path, err
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(&cfg, environ); err != nil {
		return cfg, path, err
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
	}
	if opts.LogJSON {
		cfg.Log.JSON = true
	}
	return cfg, path, nil
}

// Validate wraps config validation with a CLI friendly message.
func Validate(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
