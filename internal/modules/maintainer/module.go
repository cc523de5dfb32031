package maintainer

import (
	"context"

	"go.uber.org/fx"

	"tick_bot/internal/modules/config"
	enginesvc "tick_bot/internal/modules/engine/service"
	journalsvc "tick_bot/internal/modules/journal/service"
	"tick_bot/internal/modules/maintainer/service"
	smartsvc "tick_bot/internal/modules/smart_client/service"
	"tick_bot/internal/strategy"
)

func Module() fx.Option {
	return fx.Module("maintainer",
		fx.Provide(
			strategy.NewFactory,

			func(c *smartsvc.Client) service.HistoryProvider { return c },
			func(c *smartsvc.Client) service.OrderPlacer { return c },
			func(j *journalsvc.Journal) service.Journal { return j },

			service.NewSink,
			service.NewMaintainer,

			func(cfg *config.Config, m *service.Maintainer, f *strategy.Factory, sink *service.Sink) *service.Dispatcher {
				return service.NewDispatcher(m, f, sink, cfg.DispatchShards, cfg.DispatchQueueSize)
			},
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			d *service.Dispatcher,
			eng *enginesvc.Engine,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go d.Run(ctx, eng.Events())
					return nil
				},
			})
		}),
	)
}
