package combat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/battlecore/internal/game/condition"
)

func stubBattle(id string, started time.Time) *entry {
	p := func(pid string) *Participant {
		return &Participant{ID: pid, Health: 10, MaxHealth: 10, Effects: condition.NewSet(), Active: true}
	}
	return &entry{battle: &Battle{
		ID:           id,
		Type:         TypePvP,
		Participants: []*Participant{p(id + "-a"), p(id + "-b")},
		MaxTurns:     DefaultMaxTurns,
		Status:       StatusActive,
		StartedAt:    started,
		TurnPolicy:   TurnSkipEliminated,
	}}
}

func TestSweep_IsolatesPerBattleFailures(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := NewEngine(nil, Options{Clock: func() time.Time { return start }})
	for _, id := range []string{"b1", "b2", "b3", "b4"} {
		e.battles[id] = stubBattle(id, start)
	}

	core, logs := observer.New(zapcore.ErrorLevel)
	s := NewScheduler(e, SchedulerConfig{Clock: func() time.Time { return start.Add(time.Hour) }}, zap.New(core))
	s.expire = func(ctx context.Context, id string, now time.Time, ceiling time.Duration) (bool, error) {
		switch id {
		case "b2":
			return false, errors.New("store unavailable")
		case "b3":
			panic("corrupt battle")
		}
		return e.expireIfStale(ctx, id, now, ceiling)
	}

	report := s.Sweep(context.Background())
	assert.Equal(t, 4, report.Checked)
	assert.Equal(t, []string{"b1", "b4"}, report.TimedOut)
	assert.Equal(t, []string{"b2", "b3"}, report.Failed)
	assert.Equal(t, 2, logs.FilterMessage("battle timeout check failed").Len())

	for id, want := range map[string]Status{"b1": StatusTimeout, "b2": StatusActive, "b3": StatusActive, "b4": StatusTimeout} {
		got, err := e.GetBattle(id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, id)
	}
}
