package runtime

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/aretw0/drillsim/pkg/domain"
)

// Engine drives one generation request through the depth axis builder,
// the per-channel random walk and table assembly.
type Engine struct {
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	newSeed func() int64
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithSeedFunc overrides how a seed is picked for requests that carry none.
func WithSeedFunc(fn func() int64) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.newSeed = fn
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		newSeed: func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate validates req and synthesizes a table.
// Each call owns its random source; the seed used is recorded on the table
// so that the run can be reproduced.
func (e *Engine) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Table, error) {
	if err := domain.ValidateRange(req.StartDepth, req.EndDepth, req.Step); err != nil {
		return nil, err
	}
	channels, err := req.Channels()
	if err != nil {
		return nil, err
	}

	axis, err := BuildDepthAxis(req.StartDepth, req.EndDepth, req.Step)
	if err != nil {
		return nil, err
	}

	seed := e.newSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	series := make([]domain.ChannelSeries, len(channels))
	for i, spec := range channels {
		s, err := Walk(spec, len(axis), rng)
		if err != nil {
			return nil, err
		}
		series[i] = s
		e.emitChannelGenerated(ctx, spec, s)
	}

	table, err := domain.NewTable(axis, channels, series)
	if err != nil {
		return nil, err
	}
	table = table.WithSeed(seed)

	e.logger.Debug("table generated",
		"rows", table.Len(),
		"start_depth", req.StartDepth,
		"end_depth", req.EndDepth,
		"step", req.Step,
		"seed", seed,
	)
	e.emitTableAssembled(ctx, table)
	return table, nil
}

func (e *Engine) emitChannelGenerated(ctx context.Context, spec domain.ChannelSpec, series domain.ChannelSeries) {
	if e.hooks.OnChannelGenerated == nil {
		return
	}
	e.hooks.OnChannelGenerated(ctx, &domain.ChannelEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventChannelGenerated},
		Channel:   spec.Key,
		Points:    len(series),
		AtBounds:  AtBounds(spec, series),
	})
}

func (e *Engine) emitTableAssembled(ctx context.Context, table *domain.Table) {
	if e.hooks.OnTableAssembled == nil {
		return
	}
	e.hooks.OnTableAssembled(ctx, &domain.TableEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTableAssembled},
		Rows:      table.Len(),
		Channels:  len(table.Channels()),
		Seed:      table.Seed(),
	})
}
