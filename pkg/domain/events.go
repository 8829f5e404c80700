package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventChannelGenerated EventType = "channel_generated"
	EventTableAssembled   EventType = "table_assembled"
	EventExport           EventType = "export"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ChannelEvent is emitted once per generated channel.
type ChannelEvent struct {
	EventBase
	Channel  string `json:"channel"`
	Points   int    `json:"points"`
	AtBounds int    `json:"at_bounds"` // values pinned to Min or Max by clamping
}

// TableEvent is emitted after a table has been assembled.
type TableEvent struct {
	EventBase
	Rows     int   `json:"rows"`
	Channels int   `json:"channels"`
	Seed     int64 `json:"seed"`
}

// ExportEvent is emitted after every export attempt, successful or not.
type ExportEvent struct {
	EventBase
	Format   Format        `json:"format"`
	Path     string        `json:"path,omitempty"`
	Attempts int           `json:"attempts"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnChannelGenerated func(context.Context, *ChannelEvent)
	OnTableAssembled   func(context.Context, *TableEvent)
	OnExport           func(context.Context, *ExportEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnChannelGenerated: chain(h.OnChannelGenerated, other.OnChannelGenerated),
		OnTableAssembled:   chain(h.OnTableAssembled, other.OnTableAssembled),
		OnExport:           chain(h.OnExport, other.OnExport),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
