package observability

import (
	"context"
	"errors"

	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors updated by the engine hooks.
type Metrics struct {
	ChannelsGenerated *prometheus.CounterVec
	ClampedPoints     *prometheus.CounterVec
	TablesGenerated   prometheus.Counter
	RowsGenerated     prometheus.Counter
	Exports           *prometheus.CounterVec
	ExportDuration    *prometheus.HistogramVec
	NameAttempts      prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChannelsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drillsim_channels_generated_total",
				Help: "Total number of generated channel series",
			},
			[]string{"channel"},
		),
		ClampedPoints: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drillsim_clamped_points_total",
				Help: "Total number of generated values pinned to a channel bound",
			},
			[]string{"channel"},
		),
		TablesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "drillsim_tables_generated_total",
			Help: "Total number of assembled tables",
		}),
		RowsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "drillsim_rows_generated_total",
			Help: "Total number of generated depth rows",
		}),
		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drillsim_exports_total",
				Help: "Total number of export attempts by format and result",
			},
			[]string{"format", "result"},
		),
		ExportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "drillsim_export_duration_seconds",
				Help:    "Duration of exports",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		),
		NameAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "drillsim_export_name_attempts",
			Help:    "Candidate file names checked per export",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.ChannelsGenerated,
			m.ClampedPoints,
			m.TablesGenerated,
			m.RowsGenerated,
			m.Exports,
			m.ExportDuration,
			m.NameAttempts,
		)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChannelGenerated: func(_ context.Context, e *domain.ChannelEvent) {
			m.ChannelsGenerated.WithLabelValues(e.Channel).Inc()
			m.ClampedPoints.WithLabelValues(e.Channel).Add(float64(e.AtBounds))
		},
		OnTableAssembled: func(_ context.Context, e *domain.TableEvent) {
			m.TablesGenerated.Inc()
			m.RowsGenerated.Add(float64(e.Rows))
		},
		OnExport: func(_ context.Context, e *domain.ExportEvent) {
			m.Exports.WithLabelValues(string(e.Format), exportResult(e.Err)).Inc()
			m.ExportDuration.WithLabelValues(string(e.Format)).Observe(e.Duration.Seconds())
			if e.Attempts > 0 {
				m.NameAttempts.Observe(float64(e.Attempts))
			}
		},
	}
}

func exportResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNamingExhaustion):
		return "exhausted"
	case domain.IsValidation(err):
		return "invalid"
	default:
		return "error"
	}
}
