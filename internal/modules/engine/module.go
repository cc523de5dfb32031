package engine

import (
	"go.uber.org/fx"

	"tick_bot/internal/modules/config"
	"tick_bot/internal/modules/engine/service"
)

func Module() fx.Option {
	return fx.Module("engine",
		fx.Provide(
			func(cfg *config.Config) *service.Engine {
				return service.NewEngine(cfg.Location(), cfg.EngineQueueSize)
			},
		),
	)
}
