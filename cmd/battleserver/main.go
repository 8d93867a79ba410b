// Package main runs the battle server: it loads combat content, hosts the
// battle engine and runs the timeout scheduler and metrics endpoint until
// interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlecore/internal/config"
	"github.com/cory-johannsen/battlecore/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and BATTLE_ environment only")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "battleserver")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	app, cleanup, err := initApp(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("initializing battle server", zap.Error(err))
	}
	logger.Info("battle server ready",
		zap.Int("skills", len(app.Skills.All())),
		zap.String("events_backend", cfg.Events.Backend),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.Bool("archive", cfg.Database.Enabled),
		zap.Duration("startup", time.Since(start)),
	)

	err = app.Lifecycle.Run(ctx)
	cleanup()
	if err != nil {
		logger.Error("battle server stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.LoadDefaults()
	}
	return config.Load(path)
}
