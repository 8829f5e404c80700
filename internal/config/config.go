// Package config loads drillsim settings from a file, the environment and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/drillsim/internal/logging"
	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// DefaultFileNames are searched, in order, by Discover.
var DefaultFileNames = []string{"drillsim.yaml", "drillsim.yml", "drillsim.json", "drillsim.toml"}

// ErrUnsupportedFile is returned for config files with an unknown extension.
var ErrUnsupportedFile = errors.New("drillsim: unsupported config file type")

// Config is the full set of settings shared by the CLI, HTTP and MCP surfaces.
type Config struct {
	StartDepth float64            `yaml:"start_depth" json:"start_depth" toml:"start_depth" mapstructure:"start_depth"`
	EndDepth   float64            `yaml:"end_depth" json:"end_depth" toml:"end_depth" mapstructure:"end_depth"`
	Step       float64            `yaml:"step" json:"step" toml:"step" mapstructure:"step"`
	MaxSteps   map[string]float64 `yaml:"max_steps,omitempty" json:"max_steps,omitempty" toml:"max_steps,omitempty" mapstructure:"max_steps"`
	Seed       *int64             `yaml:"seed,omitempty" json:"seed,omitempty" toml:"seed,omitempty" mapstructure:"seed"`

	Output OutputConfig `yaml:"output" json:"output" toml:"output" mapstructure:"output"`
	Redis  RedisConfig  `yaml:"redis" json:"redis" toml:"redis" mapstructure:"redis"`
	Server ServerConfig `yaml:"server" json:"server" toml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" json:"log" toml:"log" mapstructure:"log"`
}

// OutputConfig selects where exports go.
type OutputConfig struct {
	Directory   string        `yaml:"directory" json:"directory" toml:"directory" mapstructure:"directory"`
	Prefix      string        `yaml:"prefix" json:"prefix" toml:"prefix" mapstructure:"prefix"`
	Format      domain.Format `yaml:"format" json:"format" toml:"format" mapstructure:"format"`
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts" toml:"max_attempts" mapstructure:"max_attempts"`
}

// RedisConfig enables the cross-process export lock when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr" toml:"addr" mapstructure:"addr"`
	Password string        `yaml:"password,omitempty" json:"password,omitempty" toml:"password,omitempty" mapstructure:"password"`
	DB       int           `yaml:"db" json:"db" toml:"db" mapstructure:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix" toml:"prefix" mapstructure:"prefix"`
	LockTTL  time.Duration `yaml:"lock_ttl" json:"lock_ttl" toml:"lock_ttl" mapstructure:"lock_ttl"`
}

// ServerConfig configures `drillsim serve`.
type ServerConfig struct {
	Port    int  `yaml:"port" json:"port" toml:"port" mapstructure:"port"`
	Metrics bool `yaml:"metrics" json:"metrics" toml:"metrics" mapstructure:"metrics"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level string `yaml:"level" json:"level" toml:"level" mapstructure:"level"`
	JSON  bool   `yaml:"json" json:"json" toml:"json" mapstructure:"json"`
}

// Defaults returns the zero-config settings: 500..1000 m every 5 m, CSV files
// named data/test_data_N.csv.
func Defaults() Config {
	req := domain.DefaultRequest()
	target := domain.DefaultExportTarget()
	return Config{
		StartDepth: req.StartDepth,
		EndDepth:   req.EndDepth,
		Step:       req.Step,
		Output: OutputConfig{
			Directory:   target.Directory,
			Prefix:      target.Prefix,
			Format:      target.Format,
			MaxAttempts: 10000,
		},
		Redis: RedisConfig{
			Prefix:  "drillsim:",
			LockTTL: 30 * time.Second,
		},
		Server: ServerConfig{
			Port:    8080,
			Metrics: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Discover returns the first default config file present in dir, or "" if none is.
func Discover(dir string) string {
	for _, name := range DefaultFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads path over the defaults. The format is chosen by extension.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw, err := unmarshal(filepath.Ext(path), data)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Request returns the generation request described by c.
func (c Config) Request() domain.GenerationRequest {
	req := domain.GenerationRequest{
		StartDepth: c.StartDepth,
		EndDepth:   c.EndDepth,
		Step:       c.Step,
		Seed:       c.Seed,
	}
	if len(c.MaxSteps) > 0 {
		req.MaxSteps = make(map[string]float64, len(c.MaxSteps))
		for k, v := range c.MaxSteps {
			req.MaxSteps[k] = v
		}
	}
	return req
}

// Target returns the export target described by c, with the format normalized.
func (c Config) Target() domain.ExportTarget {
	format := c.Output.Format
	if f, err := domain.ParseFormat(string(format)); err == nil {
		format = f
	}
	return domain.ExportTarget{
		Directory: c.Output.Directory,
		Prefix:    c.Output.Prefix,
		Format:    format,
	}
}

// Validate checks every section and returns the first problem found.
// Domain problems unwrap to the pkg/domain sentinels.
func (c Config) Validate() error {
	if err := c.Request().Validate(); err != nil {
		return err
	}
	if err := c.Target().Validate(); err != nil {
		return err
	}
	if _, err := domain.ParseFormat(string(c.Output.Format)); err != nil {
		return err
	}
	if c.Output.MaxAttempts < 0 {
		return fmt.Errorf("output.max_attempts must not be negative, got %d", c.Output.MaxAttempts)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Redis.LockTTL < 0 {
		return fmt.Errorf("redis.lock_ttl must not be negative, got %s", c.Redis.LockTTL)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func decode(raw map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
