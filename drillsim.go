package drillsim

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/drillsim/internal/runtime"
	"github.com/aretw0/drillsim/pkg/adapters/file"
	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/aretw0/drillsim/pkg/ports"
	"github.com/aretw0/drillsim/pkg/registry"
)

// Engine is the high-level entry point for the drillsim library.
// It generates drilling tables and exports them to uniquely named files.
type Engine struct {
	runtime  *runtime.Engine
	exporter *file.Exporter
	registry *registry.Registry

	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	seed        *int64
	seedFunc    func() int64
	locker      ports.Locker
	lockTTL     time.Duration
	maxAttempts int
	serializers []ports.TableSerializer
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSeed fixes the seed used by requests that carry none, making every
// Generate call return the same table for the same request.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = &seed
	}
}

// WithSeedFunc overrides how seeds are picked for unseeded requests (default: the clock).
func WithSeedFunc(fn func() int64) Option {
	return func(e *Engine) {
		e.seedFunc = fn
	}
}

// WithLocker serializes exports sharing a directory and prefix through l.
func WithLocker(l ports.Locker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLockTTL bounds how long an export may hold its lock.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.lockTTL = ttl
	}
}

// WithMaxAttempts caps the unique file name search.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		e.maxAttempts = n
	}
}

// WithRegistry replaces the default CSV/XLSX serializer registry.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithSerializer registers an extra serializer, replacing any for the same format.
// A registry passed to WithRegistry is copied first and left unchanged.
func WithSerializer(s ports.TableSerializer) Option {
	return func(e *Engine) {
		e.serializers = append(e.serializers, s)
	}
}

// New initializes a new drillsim Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	switch {
	case eng.registry == nil:
		eng.registry = registry.Default()
	case len(eng.serializers) > 0:
		// Extra serializers never leak into a registry the caller shares.
		eng.registry = eng.registry.Clone()
	}
	for _, s := range eng.serializers {
		eng.registry.Register(s)
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithSeedFunc(eng.seedFunc),
	)

	exporterOpts := []file.Option{
		file.WithLogger(eng.logger),
		file.WithLifecycleHooks(eng.hooks),
		file.WithMaxAttempts(eng.maxAttempts),
		file.WithLockTTL(eng.lockTTL),
	}
	if eng.locker != nil {
		exporterOpts = append(exporterOpts, file.WithLocker(eng.locker))
	}
	eng.exporter = file.NewExporter(eng.registry, exporterOpts...)

	return eng
}

// Generate synthesizes one table for req. The seed that produced it is
// available from Table.Seed.
func (e *Engine) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Table, error) {
	if req.Seed == nil && e.seed != nil {
		seed := *e.seed
		req.Seed = &seed
	}
	return e.runtime.Generate(ctx, req)
}

// Export writes table to the first free {prefix}_{index}.{ext} of target and
// returns the path written.
func (e *Engine) Export(ctx context.Context, table *domain.Table, target domain.ExportTarget) (string, error) {
	return e.exporter.Export(ctx, table, target)
}

// GenerateAndExport generates one table and writes exactly one file.
// The target is validated before anything is generated.
func (e *Engine) GenerateAndExport(ctx context.Context, req domain.GenerationRequest, target domain.ExportTarget) (*domain.Table, string, error) {
	if err := target.Validate(); err != nil {
		return nil, "", err
	}
	if _, err := e.registry.Lookup(target.Format); err != nil {
		return nil, "", err
	}

	table, err := e.Generate(ctx, req)
	if err != nil {
		return nil, "", err
	}
	path, err := e.Export(ctx, table, target)
	if err != nil {
		return table, "", err
	}
	return table, path, nil
}

// NextFreeName returns the path the next export to target would use.
func (e *Engine) NextFreeName(target domain.ExportTarget) (string, error) {
	return e.exporter.NextFreeName(target)
}

// Formats lists the export formats the engine can write.
func (e *Engine) Formats() []domain.Format {
	return e.registry.Formats()
}

// Channels returns the channels every table carries, in column order.
func (e *Engine) Channels() []domain.ChannelSpec {
	return domain.DefaultChannels()
}
