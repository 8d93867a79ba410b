package combat

import "time"

// Metrics receives battle telemetry. observability.BattleMetrics satisfies it.
// Every BattleStarted is eventually followed by exactly one BattleEnded for
// the same battle, so implementations may track active battles from the pair.
type Metrics interface {
	BattleStarted(battleType string)
	BattleEnded(battleType, status string, duration time.Duration)
	TurnExecuted(result string)
	DamageDealt(amount int)
}

// Turn results reported to Metrics.TurnExecuted.
const (
	TurnAccepted = "accepted"
	TurnRejected = "rejected"
)

type nopMetrics struct{}

func (nopMetrics) BattleStarted(string) {}
func (nopMetrics) BattleEnded(string, string, time.Duration) {}
func (nopMetrics) TurnExecuted(string) {}
func (nopMetrics) DamageDealt(int) {}
