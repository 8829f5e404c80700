package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/drillsim/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that log every event at Debug,
// and failed exports at Warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChannelGenerated: func(ctx context.Context, e *domain.ChannelEvent) {
			logger.DebugContext(ctx, "channel generated",
				"channel", e.Channel,
				"points", e.Points,
				"at_bounds", e.AtBounds,
			)
		},
		OnTableAssembled: func(ctx context.Context, e *domain.TableEvent) {
			logger.DebugContext(ctx, "table assembled",
				"rows", e.Rows,
				"channels", e.Channels,
				"seed", e.Seed,
			)
		},
		OnExport: func(ctx context.Context, e *domain.ExportEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "export failed",
					"format", e.Format,
					"attempts", e.Attempts,
					"err", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "export finished",
				"path", e.Path,
				"format", e.Format,
				"attempts", e.Attempts,
				"duration", e.Duration,
			)
		},
	}
}
