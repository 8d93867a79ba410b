package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	channel string
	message []byte
	err     error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.message, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisPublisher_EncodesJSON(t *testing.T) {
	fake := &fakeRedis{}
	p := &RedisPublisher{client: fake, prefix: "battle:"}

	err := p.Publish(context.Background(), SkillLearned, SkillChange{CharacterID: "c1", SkillID: "fireball", Level: 1})
	require.NoError(t, err)
	assert.Equal(t, "battle:skill.learned", fake.channel)

	var got SkillChange
	require.NoError(t, json.Unmarshal(fake.message, &got))
	assert.Equal(t, "fireball", got.SkillID)
}

func TestRedisPublisher_WrapsCommandError(t *testing.T) {
	down := errors.New("connection refused")
	p := &RedisPublisher{client: &fakeRedis{err: down}, prefix: ""}
	err := p.Publish(context.Background(), BattleEnded, BattleEnd{BattleID: "b1"})
	assert.ErrorIs(t, err, down)
}

func TestRedisPublisher_EncodeError(t *testing.T) {
	p := &RedisPublisher{client: &fakeRedis{}, prefix: ""}
	err := p.Publish(context.Background(), BattleEnded, make(chan int))
	assert.Error(t, err)
}
