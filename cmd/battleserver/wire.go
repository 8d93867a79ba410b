//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlecore/internal/config"
)

func initApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	panic(wire.Build(
		provideRandom,

		provideSkills,
		provideConditions,
		provideEquipment,
		provideScripts,

		providePublisher,

		providePrometheusRegistry,
		provideBattleMetrics,
		provideMetricsServer,

		provideStore,
		provideEngine,
		provideScheduler,

		provideLifecycle,
		newApp,
	))
}
