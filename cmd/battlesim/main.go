// Package main runs simulated battles between freshly created characters,
// choosing each participant's skill and target automatically. Classes with
// an HTN tactics domain under content/tactics follow it; the rest act at
// random.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlecore/internal/config"
	"github.com/cory-johannsen/battlecore/internal/events"
	"github.com/cory-johannsen/battlecore/internal/game/ai"
	"github.com/cory-johannsen/battlecore/internal/game/character"
	"github.com/cory-johannsen/battlecore/internal/game/combat"
	"github.com/cory-johannsen/battlecore/internal/game/condition"
	"github.com/cory-johannsen/battlecore/internal/game/dice"
	"github.com/cory-johannsen/battlecore/internal/game/inventory"
	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
	"github.com/cory-johannsen/battlecore/internal/observability"
	"github.com/cory-johannsen/battlecore/internal/scripting"
)

func main() {
	start := time.Now()

	contentDir := flag.String("content", "content", "content root holding skills/, conditions/, equipment/ and scripts/")
	classes := flag.String("classes", "warrior,mage", "comma-separated classes, one participant each")
	seed := flag.Uint64("seed", 0, "dice seed; 0 = cryptographic randomness")
	maxTurns := flag.Int("max-turns", combat.DefaultMaxTurns, "turn ceiling")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger, err := observability.NewLogger(config.LoggingConfig{Level: *logLevel, Format: "console"}, "battlesim")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	var src dice.Source = dice.NewCryptoSource()
	if *seed != 0 {
		src = dice.NewSeededSource(*seed)
	}

	sim, cleanup, err := newSimulator(*contentDir, src, *maxTurns, logger)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	defer cleanup()

	var picked []ruleset.Class
	for _, name := range strings.Split(*classes, ",") {
		picked = append(picked, ruleset.Class(strings.TrimSpace(name)))
	}

	b, err := sim.Run(context.Background(), picked)
	if err != nil {
		logger.Fatal("simulating battle", zap.Error(err))
	}
	printSummary(b)
	fmt.Printf("simulation complete in %s\n", time.Since(start).Round(time.Millisecond))
	if b.Status != combat.StatusCompleted {
		os.Exit(2)
	}
}

// simulator owns one engine and drives battles on it.
type simulator struct {
	store   *character.Store
	engine  *combat.Engine
	skills  *skill.Registry
	equip   *inventory.Registry
	tactics *ai.Registry
	src     dice.Source
	logger  *zap.Logger
}

func newSimulator(contentDir string, src dice.Source, maxTurns int, logger *zap.Logger) (*simulator, func(), error) {
	skills, err := skill.LoadDirectory(filepath.Join(contentDir, "skills"))
	if err != nil {
		return nil, nil, err
	}
	conditions, err := condition.LoadDirectory(filepath.Join(contentDir, "conditions"))
	if err != nil {
		return nil, nil, err
	}
	equip, err := inventory.LoadEquipment(filepath.Join(contentDir, "equipment"))
	if err != nil {
		return nil, nil, err
	}
	scripts := scripting.NewManager(src, logger)
	if err := scripts.Load(filepath.Join(contentDir, "scripts"), scripting.DefaultInstructionLimit); err != nil {
		return nil, nil, err
	}
	tactics, err := loadTactics(filepath.Join(contentDir, "tactics"), scripts)
	if err != nil {
		scripts.Close()
		return nil, nil, err
	}

	pub := events.Filter{
		Names: []string{events.BattleStarted, events.BattleEnded},
		Next:  events.NewLogPublisher(logger),
	}
	store := character.NewStore(skills, equip, src, events.Nop, logger)
	engine := combat.NewEngine(store, combat.Options{
		MaxTurns:   maxTurns,
		Conditions: conditions,
		Publisher:  pub,
		Hooks:      scripts,
		Random:     src,
		Logger:     logger,
	})
	return &simulator{
		store:   store,
		engine:  engine,
		skills:  skills,
		equip:   equip,
		tactics: tactics,
		src:     src,
		logger:  logger,
	}, scripts.Close, nil
}

// loadTactics registers every domain in dir. A missing dir yields an empty registry.
func loadTactics(dir string, caller ai.ScriptCaller) (*ai.Registry, error) {
	reg := ai.NewRegistry()
	domains, err := ai.LoadDomains(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return reg, nil
	}
	if err != nil {
		return nil, err
	}
	for _, d := range domains {
		if err := reg.Register(d, caller); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Run creates one character per class, teaches each every skill it
// qualifies for, equips what it can wear and fights until the battle ends.
// The winner's experience reward is credited to its character.
func (s *simulator) Run(ctx context.Context, classes []ruleset.Class) (*combat.Battle, error) {
	ids := make([]string, 0, len(classes))
	for i, class := range classes {
		id, err := s.prepare(ctx, fmt.Sprintf("%s-%d", class, i+1), class)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	b, err := s.engine.StartBattle(ctx, combat.StartRequest{CharacterIDs: ids, Type: combat.TypeArena})
	if err != nil {
		return nil, err
	}
	for b.Status == combat.StatusActive {
		actor := b.CurrentParticipant()
		req := s.choose(b, actor)
		res, err := s.engine.ExecuteTurn(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", b.CurrentTurn, err)
		}
		s.logger.Info("turn",
			zap.Int("turn", b.CurrentTurn),
			zap.String("actor", actor.Name),
			zap.String("skill", res.SkillID),
			zap.String("target", res.TargetID),
			zap.Int("damage", res.Damage),
			zap.Int("healing", res.Healing),
			zap.Bool("critical", res.Critical),
			zap.Strings("applied", res.Applied),
		)
		b = res.Battle
	}
	if err := s.grantRewards(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// grantRewards credits each experience reward to the winning character.
func (s *simulator) grantRewards(ctx context.Context, b *combat.Battle) error {
	for _, r := range b.Rewards {
		if r.Type != combat.RewardExperience {
			continue
		}
		c, err := s.store.GainExperience(ctx, r.ParticipantID, r.Amount)
		if err != nil {
			return fmt.Errorf("granting reward %s: %w", r.ID, err)
		}
		s.logger.Info("reward granted",
			zap.String("character", c.Name),
			zap.Int("experience", r.Amount),
			zap.Int("level", c.Level),
		)
	}
	return nil
}

func (s *simulator) prepare(ctx context.Context, name string, class ruleset.Class) (string, error) {
	c, err := s.store.Create("battlesim", name, class)
	if err != nil {
		return "", err
	}
	for _, sk := range s.skills.All() {
		if sk.ID == skill.BasicAttackID {
			continue
		}
		if _, err := s.store.LearnSkill(ctx, c.ID, sk.ID); err != nil {
			s.logger.Debug("skill not learned", zap.String("character", name), zap.String("skill", sk.ID), zap.Error(err))
		}
	}
	for _, def := range s.equip.All() {
		if _, taken := c.Equipment[def.Slot]; taken {
			continue
		}
		e, err := s.store.CreateEquipment(def.ID)
		if err != nil {
			return "", err
		}
		if updated, err := s.store.Equip(ctx, c.ID, e.ID, def.Slot); err == nil {
			c = updated
		}
	}
	return c.ID, nil
}

// choose follows the actor's tactics domain when one yields a plan, and
// otherwise acts at random.
func (s *simulator) choose(b *combat.Battle, actor *combat.Participant) combat.TurnRequest {
	req := combat.TurnRequest{BattleID: b.ID, ParticipantID: actor.ID}
	if planner, ok := s.tactics.PlannerForClass(actor.Class); ok {
		ws, err := ai.BuildWorldState(b, actor.ID)
		if err == nil {
			plan, _ := planner.Plan(ws)
			if len(plan) > 0 {
				s.logger.Debug("planned turn",
					zap.String("domain", planner.Domain().ID),
					zap.String("actor", actor.Name),
					zap.String("skill", plan[0].SkillID),
				)
				req.SkillID = plan[0].SkillID
				req.TargetID = plan[0].TargetID
				return req
			}
		}
	}
	return s.chooseRandom(req, b, actor)
}

// chooseRandom heals when badly hurt, otherwise uses a random skill. Heals
// and buffs target the actor; everything else targets a random living opponent.
func (s *simulator) chooseRandom(req combat.TurnRequest, b *combat.Battle, actor *combat.Participant) combat.TurnRequest {

	var heal *skill.Skill
	for _, sk := range actor.Skills {
		if sk.Type == skill.TypeHeal {
			heal = sk
		}
	}
	if heal != nil && actor.Health*3 < actor.MaxHealth {
		req.SkillID = heal.ID
		return req
	}

	sk := actor.Skills[s.src.Intn(len(actor.Skills))]
	req.SkillID = sk.ID
	if sk.Type == skill.TypeHeal || sk.Type == skill.TypeBuff {
		return req
	}
	var opponents []*combat.Participant
	for _, p := range b.Alive() {
		if p.ID != actor.ID {
			opponents = append(opponents, p)
		}
	}
	req.TargetID = opponents[s.src.Intn(len(opponents))].ID
	return req
}

func printSummary(b *combat.Battle) {
	fmt.Printf("battle %s: %s after %d turns", b.ID, b.Status, b.CurrentTurn)
	if w, ok := b.Participant(b.WinnerID); ok {
		fmt.Printf(", winner %s (%s)", w.Name, w.Class)
	}
	fmt.Println()
	for _, p := range b.Participants {
		fmt.Printf("  %-14s %-10s hp %4d/%-4d dealt %5d taken %5d healed %4d crits %2d kills %d\n",
			p.Name, p.Class, p.Health, p.MaxHealth,
			p.Combat.DamageDealt, p.Combat.DamageReceived, p.Combat.HealingDone,
			p.Combat.CriticalHits, p.Combat.Kills)
	}
	for _, r := range b.Rewards {
		fmt.Printf("  reward: %s %d to %s\n", r.Type, r.Amount, r.ParticipantID)
	}
}
