// Package metrics exposes controller activity as Prometheus collectors.
package metrics

import (
	"context"
	"errors"

	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors groups the tremaux metrics registered on one registry.
type Collectors struct {
	Decisions   *prometheus.CounterVec
	ModeChanges *prometheus.CounterVec
	Junctions   prometheus.Counter
	Errors      *prometheus.CounterVec
	Sessions    prometheus.Gauge
	Moves       *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)
	return &Collectors{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tremaux_decisions_total",
			Help: "Commands issued to robots, by decision mode.",
		}, []string{"mode"}),
		ModeChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tremaux_mode_changes_total",
			Help: "Mode transitions, by source and target mode.",
		}, []string{"from", "to"}),
		Junctions: factory.NewCounter(prometheus.CounterOpts{
			Name: "tremaux_junctions_recorded_total",
			Help: "Junctions added to a ledger.",
		}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tremaux_decision_errors_total",
			Help: "Ticks where no command could be issued, by cause.",
		}, []string{"kind"}),
		Sessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tremaux_sessions_active",
			Help: "Controllers held by the decision service.",
		}),
		Moves: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tremaux_attempt_moves",
			Help:    "Commands issued during one attempt.",
			Buckets: prometheus.ExponentialBuckets(4, 2, 12),
		}, []string{"mode"}),
	}
}

// ObserveAttempt records the commands issued during one attempt. Attempts
// that ended outside Replay are reported as explore.
func (c *Collectors) ObserveAttempt(last domain.Mode, moves int) {
	mode := domain.ModeExplore
	if last == domain.ModeReplay {
		mode = domain.ModeReplay
	}
	c.Moves.WithLabelValues(string(mode)).Observe(float64(moves))
}

// Hooks returns lifecycle hooks that feed the collectors.
func (c *Collectors) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDecision: func(_ context.Context, e *domain.DecisionEvent) {
			c.Decisions.WithLabelValues(string(e.Decision.Mode)).Inc()
		},
		OnModeChange: func(_ context.Context, e *domain.ModeEvent) {
			c.ModeChanges.WithLabelValues(string(e.From), string(e.To)).Inc()
		},
		OnJunctionRecorded: func(_ context.Context, _ *domain.JunctionEvent) {
			c.Junctions.Inc()
		},
	}
}

// ObserveError counts a failed tick under the sentinel it wraps.
func (c *Collectors) ObserveError(err error) {
	c.Errors.WithLabelValues(ErrorKind(err)).Inc()
}

// ErrorKind maps an error to a short label value.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrSensorAmbiguity):
		return "sensor_ambiguity"
	case errors.Is(err, domain.ErrLedgerCapacityExceeded):
		return "ledger_capacity"
	case errors.Is(err, domain.ErrLedgerLookupMiss):
		return "ledger_miss"
	case errors.Is(err, domain.ErrReplayTableMiss):
		return "replay_miss"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "other"
}

// Chain runs every hook set in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDecision: func(ctx context.Context, e *domain.DecisionEvent) {
			for _, s := range sets {
				if s.OnDecision != nil {
					s.OnDecision(ctx, e)
				}
			}
		},
		OnModeChange: func(ctx context.Context, e *domain.ModeEvent) {
			for _, s := range sets {
				if s.OnModeChange != nil {
					s.OnModeChange(ctx, e)
				}
			}
		},
		OnJunctionRecorded: func(ctx context.Context, e *domain.JunctionEvent) {
			for _, s := range sets {
				if s.OnJunctionRecorded != nil {
					s.OnJunctionRecorded(ctx, e)
				}
			}
		},
	}
}
