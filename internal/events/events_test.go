package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/battlecore/internal/events"
)

func TestFanout_DeliversToAllAndJoinsErrors(t *testing.T) {
	var a, b events.Recorder
	boom := errors.New("boom")
	failing := events.PublisherFunc(func(context.Context, string, any) error { return boom })

	err := events.Fanout{&a, failing, &b}.Publish(context.Background(), events.BattleStarted, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.Records(), 1)
	assert.Len(t, b.Records(), 1)
}

func TestFanout_Empty(t *testing.T) {
	assert.NoError(t, events.Fanout{}.Publish(context.Background(), events.BattleEnded, nil))
}

func TestFilter_OnlyForwardsNamed(t *testing.T) {
	var rec events.Recorder
	f := events.Filter{Names: []string{events.BattleEnded}, Next: &rec}
	require.NoError(t, f.Publish(context.Background(), events.BattleStarted, 1))
	require.NoError(t, f.Publish(context.Background(), events.BattleEnded, 2))
	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].Payload)
}

func TestRecorder_Named(t *testing.T) {
	var rec events.Recorder
	ctx := context.Background()
	_ = rec.Publish(ctx, events.SkillLearned, "a")
	_ = rec.Publish(ctx, events.SkillLeveledUp, "b")
	_ = rec.Publish(ctx, events.SkillLearned, "c")
	assert.Equal(t, []any{"a", "c"}, rec.Named(events.SkillLearned))
	assert.Empty(t, rec.Named(events.BattleEnded))
}

func TestLogPublisher_LogsEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := events.NewLogPublisher(zap.New(core))
	require.NoError(t, p.Publish(context.Background(), events.EquipmentEquipped, events.EquipmentChange{CharacterID: "c1"}))
	entries := logs.FilterMessage("event published").All()
	require.Len(t, entries, 1)
	assert.Equal(t, events.EquipmentEquipped, entries[0].ContextMap()["event"])
}

func TestNop(t *testing.T) {
	assert.NoError(t, events.Nop.Publish(context.Background(), events.BattleEnded, nil))
}
