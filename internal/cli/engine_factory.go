package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/drillsim"
	"github.com/aretw0/drillsim/internal/config"
	"github.com/aretw0/drillsim/internal/logging"
	"github.com/aretw0/drillsim/pkg/adapters/redis"
	"github.com/aretw0/drillsim/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Runtime bundles the engine and its supporting services for one command.
type Runtime struct {
	Engine   *drillsim.Engine
	Logger   *slog.Logger
	Registry *prometheus.Registry // nil unless metrics are enabled
	closers  []func() error
}

// Close releases the services opened by NewRuntime.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	return errors.Join(errs...)
}

// createLogger configures the application logger from cfg.Log.
func createLogger(cfg config.Config) *slog.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if cfg.Log.JSON {
		return logging.NewJSON(level)
	}
	return logging.New(level)
}

// NewRuntime initializes a drillsim engine with standard CLI conventions:
// the configured logger, debug hooks at debug level, Prometheus metrics when
// withMetrics is set, and a Redis export lock when cfg.Redis.Addr is set.
func NewRuntime(ctx context.Context, cfg config.Config, withMetrics bool) (*Runtime, error) {
	return newRuntime(ctx, cfg, createLogger(cfg), withMetrics)
}

func newRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger, withMetrics bool) (*Runtime, error) {
	rt := &Runtime{Logger: logger}
	engineOpts := []drillsim.Option{
		drillsim.WithLogger(logger),
		drillsim.WithMaxAttempts(cfg.Output.MaxAttempts),
		drillsim.WithLockTTL(cfg.Redis.LockTTL),
	}

	// 1. Hooks
	var hooks = observability.LoggingHooks(logger)
	if withMetrics {
		rt.Registry = prometheus.NewRegistry()
		rt.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		hooks = hooks.Merge(observability.NewMetrics(rt.Registry).Hooks())
	}
	engineOpts = append(engineOpts, drillsim.WithLifecycleHooks(hooks))

	// 2. Cross-process export lock
	if cfg.Redis.Addr != "" {
		locker := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithPrefix(cfg.Redis.Prefix))
		if err := locker.Ping(ctx); err != nil {
			_ = locker.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		rt.closers = append(rt.closers, locker.Close)
		engineOpts = append(engineOpts, drillsim.WithLocker(locker))
		logger.Debug("export lock enabled", "redis", cfg.Redis.Addr)
	}

	rt.Engine = drillsim.New(engineOpts...)
	return rt, nil
}
