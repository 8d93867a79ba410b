// Package main applies the battle archive schema migrations.
package main

import (
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlecore/internal/config"
	"github.com/cory-johannsen/battlecore/internal/observability"
	"github.com/cory-johannsen/battlecore/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	source := flag.String("source", "file://migrations", "migration source URL")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = every pending up migration, or one step down)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging, "battle-migrate")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	n, err := stepCount(*direction, *steps)
	if err != nil {
		logger.Fatal("invalid arguments", zap.Error(err))
	}
	res, err := postgres.Migrate(*source, cfg.Database.DSN(), n)
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migration finished",
		zap.String("direction", *direction),
		zap.Uint("version", res.Version),
		zap.Bool("dirty", res.Dirty),
		zap.Bool("changed", res.Changed),
		zap.Duration("elapsed", time.Since(start)),
	)
}
