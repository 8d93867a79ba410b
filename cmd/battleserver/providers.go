package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlecore/internal/config"
	"github.com/cory-johannsen/battlecore/internal/events"
	"github.com/cory-johannsen/battlecore/internal/game/character"
	"github.com/cory-johannsen/battlecore/internal/game/combat"
	"github.com/cory-johannsen/battlecore/internal/game/condition"
	"github.com/cory-johannsen/battlecore/internal/game/dice"
	"github.com/cory-johannsen/battlecore/internal/game/inventory"
	"github.com/cory-johannsen/battlecore/internal/game/skill"
	"github.com/cory-johannsen/battlecore/internal/observability"
	"github.com/cory-johannsen/battlecore/internal/scripting"
	"github.com/cory-johannsen/battlecore/internal/server"
	"github.com/cory-johannsen/battlecore/internal/storage/postgres"
)

// App is the assembled battle server.
type App struct {
	Lifecycle *server.Lifecycle
	Engine    *combat.Engine
	Store     *character.Store
	Skills    *skill.Registry
}

func newApp(lc *server.Lifecycle, engine *combat.Engine, store *character.Store, skills *skill.Registry) *App {
	return &App{Lifecycle: lc, Engine: engine, Store: store, Skills: skills}
}

func provideRandom(logger *zap.Logger) dice.Source {
	return dice.NewLoggedSource(dice.NewCryptoSource(), logger)
}

func provideSkills(cfg *config.Config) (*skill.Registry, error) {
	if cfg.Content.SkillsDir == "" {
		return skill.NewRegistry(), nil
	}
	return skill.LoadDirectory(cfg.Content.SkillsDir)
}

func provideConditions(cfg *config.Config) (*condition.Registry, error) {
	if cfg.Content.ConditionsDir == "" {
		return condition.NewRegistry(), nil
	}
	return condition.LoadDirectory(cfg.Content.ConditionsDir)
}

func provideEquipment(cfg *config.Config) (*inventory.Registry, error) {
	if cfg.Content.EquipmentDir == "" {
		return inventory.NewRegistry(), nil
	}
	return inventory.LoadEquipment(cfg.Content.EquipmentDir)
}

func provideScripts(cfg *config.Config, src dice.Source, logger *zap.Logger) (*scripting.Manager, func(), error) {
	m := scripting.NewManager(src, logger)
	if cfg.Content.ScriptsDir != "" {
		if err := m.Load(cfg.Content.ScriptsDir, cfg.Content.ScriptInstructionLimit); err != nil {
			return nil, nil, err
		}
	}
	return m, m.Close, nil
}

// providePublisher fans every notification out to the log, and to Redis and
// the battle archive when they are configured.
func providePublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (events.Publisher, func(), error) {
	pubs := events.Fanout{events.NewLogPublisher(logger)}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Events.Backend == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Events.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Events.RedisAddr, err)
		}
		closers = append(closers, func() { _ = client.Close() })
		pubs = append(pubs, events.NewRedisPublisher(client, cfg.Events.ChannelPrefix))
	}

	if cfg.Database.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connecting to battle archive: %w", err)
		}
		closers = append(closers, pool.Close)
		archiver := postgres.NewArchiver(postgres.NewBattleReportRepository(pool.DB()), logger)
		pubs = append(pubs, events.Filter{Names: []string{events.BattleEnded}, Next: archiver})
	}
	return pubs, cleanup, nil
}

func providePrometheusRegistry() *prometheus.Registry {
	return observability.NewRegistry()
}

func provideBattleMetrics(reg *prometheus.Registry) (*observability.BattleMetrics, error) {
	m := observability.NewBattleMetrics()
	if err := m.Register(reg); err != nil {
		return nil, fmt.Errorf("registering battle metrics: %w", err)
	}
	return m, nil
}

func provideMetricsServer(cfg *config.Config, reg *prometheus.Registry, logger *zap.Logger) *observability.MetricsServer {
	return observability.NewMetricsServer(cfg.Metrics.Addr, reg, logger)
}

func provideStore(skills *skill.Registry, equipment *inventory.Registry, src dice.Source, pub events.Publisher, logger *zap.Logger) *character.Store {
	return character.NewStore(skills, equipment, src, pub, logger)
}

func provideEngine(
	cfg *config.Config,
	store *character.Store,
	conditions *condition.Registry,
	scripts *scripting.Manager,
	metrics *observability.BattleMetrics,
	pub events.Publisher,
	src dice.Source,
	logger *zap.Logger,
) (*combat.Engine, error) {
	turns, err := combat.ParseTurnPolicy(cfg.Battle.TurnOrder)
	if err != nil {
		return nil, err
	}
	stacking, err := condition.ParsePolicy(cfg.Battle.StatusStacking)
	if err != nil {
		return nil, err
	}
	return combat.NewEngine(store, combat.Options{
		MaxTurns:       cfg.Battle.MaxTurns,
		TurnPolicy:     turns,
		Stacking:       stacking,
		DefaultArena:   cfg.Battle.DefaultArena,
		DefaultWeather: cfg.Battle.DefaultWeather,
		Conditions:     conditions,
		Rewards:        combat.FixedReward{Amount: cfg.Battle.VictoryExperience},
		Publisher:      pub,
		Metrics:        metrics,
		Hooks:          scripts,
		Random:         src,
		Logger:         logger,
	}), nil
}

func provideScheduler(cfg *config.Config, engine *combat.Engine, logger *zap.Logger) *combat.Scheduler {
	return combat.NewScheduler(engine, combat.SchedulerConfig{
		Interval: cfg.Battle.SweepInterval,
		Timeout:  cfg.Battle.Timeout,
	}, logger)
}

func provideLifecycle(cfg *config.Config, logger *zap.Logger, sched *combat.Scheduler, metrics *observability.MetricsServer) *server.Lifecycle {
	lc := server.NewLifecycle(logger)
	lc.Add("battle-scheduler", sched)
	if cfg.Metrics.Enabled {
		lc.Add("metrics", metrics)
	}
	return lc
}
