package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsNamespace prefixes every battle metric name.
const MetricsNamespace = "battle"

// BattleMetrics exports battle engine telemetry to Prometheus.
// It satisfies combat.Metrics. All methods are safe for concurrent use.
type BattleMetrics struct {
	started  *prometheus.CounterVec
	ended    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	turns    *prometheus.CounterVec
	damage   prometheus.Counter
	active   prometheus.Gauge
}

// NewBattleMetrics creates unregistered battle collectors.
//
// Postcondition: Returns a non-nil BattleMetrics; call Register before scraping.
func NewBattleMetrics() *BattleMetrics {
	return &BattleMetrics{
		started: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "started_total",
				Help:      "Battles started, by battle type.",
			},
			[]string{"type"},
		),
		ended: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "ended_total",
				Help:      "Battles ended, by battle type and terminal status.",
			},
			[]string{"type", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Name:      "duration_seconds",
				Help:      "Wall-clock battle duration in seconds, by terminal status.",
				Buckets:   []float64{1, 10, 30, 60, 300, 600, 1200, 1800, 3600},
			},
			[]string{"status"},
		),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "turns_total",
				Help:      "Turn requests, by result (accepted/rejected).",
			},
			[]string{"result"},
		),
		damage: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "damage_dealt_total",
				Help:      "Total damage dealt across all battles.",
			},
		),
		active: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: MetricsNamespace,
				Name:      "active",
				Help:      "Battles currently active.",
			},
		),
	}
}

// Register adds every collector to registerer.
func (m *BattleMetrics) Register(registerer prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.started, m.ended, m.duration, m.turns, m.damage, m.active} {
		if err := registerer.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// BattleStarted counts a new battle and raises the active gauge.
func (m *BattleMetrics) BattleStarted(battleType string) {
	m.started.WithLabelValues(battleType).Inc()
	m.active.Inc()
}

// BattleEnded counts a terminal transition, observes its duration and lowers
// the active gauge.
func (m *BattleMetrics) BattleEnded(battleType, status string, duration time.Duration) {
	m.ended.WithLabelValues(battleType, status).Inc()
	m.active.Dec()
	m.duration.WithLabelValues(status).Observe(duration.Seconds())
}

// TurnExecuted counts a turn request by result.
func (m *BattleMetrics) TurnExecuted(result string) {
	m.turns.WithLabelValues(result).Inc()
}

// DamageDealt adds amount to the damage counter. Non-positive amounts are ignored.
func (m *BattleMetrics) DamageDealt(amount int) {
	if amount > 0 {
		m.damage.Add(float64(amount))
	}
}

