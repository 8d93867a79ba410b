package combat

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlecore/internal/events"
	"github.com/cory-johannsen/battlecore/internal/game/character"
	"github.com/cory-johannsen/battlecore/internal/game/condition"
	"github.com/cory-johannsen/battlecore/internal/game/dice"
)

// DefaultMaxTurns is the turn ceiling applied when Options.MaxTurns is zero.
const DefaultMaxTurns = 100

// Default arena and weather references used when a battle names none.
const (
	DefaultArena   = "arena_default"
	DefaultWeather = "weather_clear"
)

// CharacterSource resolves characters at battle start. *character.Store satisfies it.
type CharacterSource interface {
	Get(id string) (*character.Character, error)
}

// Options configures an Engine. Zero values select the defaults noted per field.
type Options struct {
	MaxTurns       int              // DefaultMaxTurns
	TurnPolicy     TurnPolicy       // TurnSkipEliminated
	Stacking       condition.Policy // condition.PolicyEnforced
	DefaultArena   string           // DefaultArena
	DefaultWeather string           // DefaultWeather

	Conditions *condition.Registry // nil: every status is unique with no modifier
	Rewards    RewardDistributor   // FixedReward{}
	Publisher  events.Publisher    // events.Nop
	Metrics    Metrics             // no-op
	Hooks      SkillHooks          // nil: hooks are ignored
	Random     dice.Source         // dice.NewCryptoSource()
	Clock      func() time.Time    // time.Now
	Logger     *zap.Logger         // zap.NewNop()
}

func (o Options) withDefaults() Options {
	if o.MaxTurns <= 0 {
		o.MaxTurns = DefaultMaxTurns
	}
	if o.TurnPolicy == "" {
		o.TurnPolicy = TurnSkipEliminated
	}
	if o.DefaultArena == "" {
		o.DefaultArena = DefaultArena
	}
	if o.DefaultWeather == "" {
		o.DefaultWeather = DefaultWeather
	}
	if o.Rewards == nil {
		o.Rewards = FixedReward{}
	}
	if o.Publisher == nil {
		o.Publisher = events.Nop
	}
	if o.Metrics == nil {
		o.Metrics = nopMetrics{}
	}
	if o.Random == nil {
		o.Random = dice.NewCryptoSource()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// entry guards one battle. Every read or write of the battle holds mu.
type entry struct {
	mu     sync.Mutex
	battle *Battle
}

// Engine owns every battle in memory.
// All methods are safe for concurrent use. Turns against the same battle are
// serialized; turns against different battles run in parallel.
type Engine struct {
	mu      sync.RWMutex
	battles map[string]*entry // battle ID → entry

	characters CharacterSource
	opts       Options
}

// NewEngine creates an Engine with no battles.
//
// Precondition: characters must not be nil.
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine(characters CharacterSource, opts Options) *Engine {
	return &Engine{
		battles:    make(map[string]*entry),
		characters: characters,
		opts:       opts.withDefaults(),
	}
}

// StartRequest describes a battle to start.
type StartRequest struct {
	CharacterIDs []string
	Type         BattleType
	ArenaID      string // DefaultArena when empty
	WeatherID    string // DefaultWeather when empty
	SpecialRules []string
	Spectators   []string
}

// StartBattle snapshots each resolvable character into a participant,
// assigns turn order by speed and stores a new active battle.
// Unresolvable and repeated character IDs are skipped.
//
// Postcondition: Returns a snapshot of the new battle, or ErrInvalidOperation
// if fewer than two participants could be resolved.
func (e *Engine) StartBattle(ctx context.Context, req StartRequest) (*Battle, error) {
	seen := make(map[string]bool, len(req.CharacterIDs))
	var participants []*Participant
	for _, id := range req.CharacterIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		c, err := e.characters.Get(id)
		if err != nil {
			e.opts.Logger.Debug("skipping unresolvable character", zap.String("character_id", id), zap.Error(err))
			continue
		}
		participants = append(participants, newParticipant(c))
	}
	if len(participants) < 2 {
		return nil, fmt.Errorf("battle needs at least 2 participants, resolved %d: %w", len(participants), ErrInvalidOperation)
	}
	assignTurnOrder(participants)

	typ := req.Type
	if typ == "" {
		typ = TypePvP
	}
	arena := req.ArenaID
	if arena == "" {
		arena = e.opts.DefaultArena
	}
	weather := req.WeatherID
	if weather == "" {
		weather = e.opts.DefaultWeather
	}
	b := &Battle{
		ID:           uuid.NewString(),
		Type:         typ,
		Participants: participants,
		CurrentTurn:  0,
		MaxTurns:     e.opts.MaxTurns,
		Status:       StatusActive,
		Rewards:      []Reward{},
		StartedAt:    e.opts.Clock(),
		ArenaID:      arena,
		WeatherID:    weather,
		SpecialRules: append([]string(nil), req.SpecialRules...),
		Spectators:   append([]string(nil), req.Spectators...),
		TurnPolicy:   e.opts.TurnPolicy,
	}
	snapshot := b.Clone()

	e.mu.Lock()
	e.battles[b.ID] = &entry{battle: b}
	e.mu.Unlock()

	e.opts.Metrics.BattleStarted(string(typ))
	e.opts.Logger.Info("battle started",
		zap.String("battle_id", b.ID),
		zap.String("type", string(typ)),
		zap.Int("participants", len(participants)),
	)

	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}
	e.publish(ctx, events.BattleStarted, events.BattleStart{
		BattleID:       b.ID,
		Type:           string(typ),
		ArenaID:        arena,
		WeatherID:      weather,
		ParticipantIDs: ids,
		StartedAt:      b.StartedAt,
	})
	return snapshot, nil
}

// newParticipant snapshots c with full pools.
func newParticipant(c *character.Character) *Participant {
	stats := c.Stats()
	maxHealth := max(stats.Health, 1)
	maxMana := max(stats.Mana, 0)
	maxStamina := max(stats.Stamina, 0)
	return &Participant{
		ID:          c.ID,
		CharacterID: c.ID,
		Name:        c.Name,
		Class:       c.Class,
		Stats:       stats,
		Health:      maxHealth,
		MaxHealth:   maxHealth,
		Mana:        maxMana,
		MaxMana:     maxMana,
		Stamina:     maxStamina,
		MaxStamina:  maxStamina,
		Effects:     condition.NewSet(),
		Skills:      c.Skills,
		Equipment:   c.Equipment.IDs(),
		Active:      true,
	}
}

// GetBattle returns a snapshot of the battle with the given ID.
func (e *Engine) GetBattle(id string) (*Battle, error) {
	en, ok := e.lookup(id)
	if !ok {
		return nil, fmt.Errorf("battle %q: %w", id, ErrNotFound)
	}
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.battle.Clone(), nil
}

// ActiveBattles returns snapshots of every active battle, oldest first.
func (e *Engine) ActiveBattles() []*Battle {
	var out []*Battle
	for _, en := range e.entries() {
		en.mu.Lock()
		if en.battle.Status == StatusActive {
			out = append(out, en.battle.Clone())
		}
		en.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ForfeitBattle ends an active battle because participantID gave up.
// When exactly one other participant is still alive it is recorded as the
// winner, but no reward is granted.
func (e *Engine) ForfeitBattle(ctx context.Context, battleID, participantID string) (*Battle, error) {
	en, ok := e.lookup(battleID)
	if !ok {
		return nil, e.reject("forfeit", fmt.Errorf("battle %q: %w", battleID, ErrNotFound))
	}
	en.mu.Lock()
	b := en.battle
	p, ok := b.Participant(participantID)
	if !ok {
		en.mu.Unlock()
		return nil, e.reject("forfeit", fmt.Errorf("participant %q in battle %q: %w", participantID, battleID, ErrNotFound))
	}
	winner := ""
	var others []*Participant
	for _, o := range b.Alive() {
		if o.ID != participantID {
			others = append(others, o)
		}
	}
	if len(others) == 1 {
		winner = others[0].ID
	}
	if !e.finish(b, StatusForfeited, winner) {
		en.mu.Unlock()
		return nil, e.reject("forfeit", fmt.Errorf("battle %q is %s: %w", battleID, b.Status, ErrInvalidOperation))
	}
	p.Active = false
	end, snapshot := summarize(b), b.Clone()
	en.mu.Unlock()

	e.ended(ctx, end)
	return snapshot, nil
}

// CancelBattle ends an active battle with no winner and no rewards.
func (e *Engine) CancelBattle(ctx context.Context, battleID string) (*Battle, error) {
	en, ok := e.lookup(battleID)
	if !ok {
		return nil, e.reject("cancel", fmt.Errorf("battle %q: %w", battleID, ErrNotFound))
	}
	en.mu.Lock()
	b := en.battle
	if !e.finish(b, StatusCancelled, "") {
		en.mu.Unlock()
		return nil, e.reject("cancel", fmt.Errorf("battle %q is %s: %w", battleID, b.Status, ErrInvalidOperation))
	}
	end, snapshot := summarize(b), b.Clone()
	en.mu.Unlock()

	e.ended(ctx, end)
	return snapshot, nil
}

// expireIfStale moves the battle to timeout when it has been active for
// longer than ceiling at now.
//
// Postcondition: Returns true iff this call performed the transition.
func (e *Engine) expireIfStale(ctx context.Context, battleID string, now time.Time, ceiling time.Duration) (bool, error) {
	en, ok := e.lookup(battleID)
	if !ok {
		return false, fmt.Errorf("battle %q: %w", battleID, ErrNotFound)
	}
	en.mu.Lock()
	b := en.battle
	if b.Status != StatusActive || now.Sub(b.StartedAt) <= ceiling {
		en.mu.Unlock()
		return false, nil
	}
	e.finishAt(b, StatusTimeout, "", now)
	end := summarize(b)
	en.mu.Unlock()

	e.ended(ctx, end)
	return true, nil
}

// activeIDs returns the IDs of every battle whose status is active.
func (e *Engine) activeIDs() []string {
	var ids []string
	for _, en := range e.entries() {
		en.mu.Lock()
		if en.battle.Status == StatusActive {
			ids = append(ids, en.battle.ID)
		}
		en.mu.Unlock()
	}
	sort.Strings(ids)
	return ids
}

// finish transitions b from active to status at the engine clock.
// The caller must hold b's entry lock.
//
// Postcondition: Returns false, changing nothing, unless b was active.
func (e *Engine) finish(b *Battle, status Status, winnerID string) bool {
	return e.finishAt(b, status, winnerID, e.opts.Clock())
}

func (e *Engine) finishAt(b *Battle, status Status, winnerID string, now time.Time) bool {
	if b.Status != StatusActive {
		return false
	}
	b.Status = status
	b.WinnerID = winnerID
	b.EndedAt = now
	b.Duration = now.Sub(b.StartedAt)
	return true
}

// ended reports a battle's terminal transition. Called without any lock held.
func (e *Engine) ended(ctx context.Context, end events.BattleEnd) {
	e.opts.Metrics.BattleEnded(end.Type, end.Status, end.Duration)
	e.opts.Logger.Info("battle ended",
		zap.String("battle_id", end.BattleID),
		zap.String("status", end.Status),
		zap.String("winner_id", end.WinnerID),
		zap.Int("turns", end.Turns),
		zap.Duration("duration", end.Duration),
	)
	e.publish(ctx, events.BattleEnded, end)
}

func (e *Engine) lookup(id string) (*entry, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	en, ok := e.battles[id]
	return en, ok
}

func (e *Engine) entries() []*entry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*entry, 0, len(e.battles))
	for _, en := range e.battles {
		out = append(out, en)
	}
	return out
}

// reject logs a refused operation at Debug and returns err unchanged.
func (e *Engine) reject(op string, err error) error {
	e.opts.Logger.Debug("battle operation rejected", zap.String("op", op), zap.Error(err))
	return err
}

// publish announces a notification. Failures are logged, never returned.
func (e *Engine) publish(ctx context.Context, name string, payload any) {
	if err := e.opts.Publisher.Publish(ctx, name, payload); err != nil {
		e.opts.Logger.Warn("publishing event", zap.String("event", name), zap.Error(err))
	}
}

// summarize builds the battle.ended payload. The caller must hold b's entry lock.
func summarize(b *Battle) events.BattleEnd {
	end := events.BattleEnd{
		BattleID:    b.ID,
		Type:        string(b.Type),
		Status:      string(b.Status),
		WinnerID:    b.WinnerID,
		StartedAt:   b.StartedAt,
		EndedAt:     b.EndedAt,
		Duration:    b.Duration,
		RewardCount: len(b.Rewards),
	}
	for _, p := range b.Participants {
		end.Turns += p.Combat.SkillsUsed
		end.Participants = append(end.Participants, events.ParticipantSummary{
			ID:             p.ID,
			Name:           p.Name,
			TurnOrder:      p.TurnOrder,
			Health:         p.Health,
			MaxHealth:      p.MaxHealth,
			DamageDealt:    p.Combat.DamageDealt,
			DamageReceived: p.Combat.DamageReceived,
			HealingDone:    p.Combat.HealingDone,
			SkillsUsed:     p.Combat.SkillsUsed,
			CriticalHits:   p.Combat.CriticalHits,
			Kills:          p.Combat.Kills,
			Deaths:         p.Combat.Deaths,
		})
	}
	return end
}
