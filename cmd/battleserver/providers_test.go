package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/battlecore/internal/config"
	"github.com/cory-johannsen/battlecore/internal/game/combat"
	"github.com/cory-johannsen/battlecore/internal/game/ruleset"
)

func TestInitApp_Defaults(t *testing.T) {
	cfg, err := config.LoadDefaults()
	require.NoError(t, err)

	app, cleanup, err := initApp(context.Background(), &cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()

	a, err := app.Store.Create("owner", "Aria", ruleset.ClassWarrior)
	require.NoError(t, err)
	b, err := app.Store.Create("owner", "Bram", ruleset.ClassMage)
	require.NoError(t, err)

	battle, err := app.Engine.StartBattle(context.Background(), combat.StartRequest{CharacterIDs: []string{a.ID, b.ID}})
	require.NoError(t, err)
	assert.Equal(t, combat.StatusActive, battle.Status)
	assert.Equal(t, 100, battle.MaxTurns)
	assert.Equal(t, "arena_default", battle.ArenaID)
}

func TestInitApp_LoadsContent(t *testing.T) {
	cfg, err := config.LoadDefaults()
	require.NoError(t, err)
	cfg.Content = config.ContentConfig{
		SkillsDir:     "../../content/skills",
		ConditionsDir: "../../content/conditions",
		EquipmentDir:  "../../content/equipment",
		ScriptsDir:    "../../content/scripts",
	}

	app, cleanup, err := initApp(context.Background(), &cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()

	_, ok := app.Skills.Get("fireball")
	assert.True(t, ok)
	_, err = app.Store.CreateEquipment("iron_sword")
	assert.NoError(t, err)
}

func TestInitApp_BadContentDir(t *testing.T) {
	cfg, err := config.LoadDefaults()
	require.NoError(t, err)
	cfg.Content.SkillsDir = "/nonexistent/skills"

	_, _, err = initApp(context.Background(), &cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestProvideEngine_RejectsUnknownPolicies(t *testing.T) {
	cfg, err := config.LoadDefaults()
	require.NoError(t, err)
	cfg.Battle.TurnOrder = "random"

	_, err = provideEngine(&cfg, nil, nil, nil, nil, nil, nil, zaptest.NewLogger(t))
	assert.Error(t, err)
}
