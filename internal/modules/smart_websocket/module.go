package smart_websocket

import (
	"context"

	"go.uber.org/fx"

	smartsvc "tick_bot/internal/modules/smart_client/service"
	"tick_bot/internal/modules/smart_websocket/service"
)

func Module() fx.Option {
	return fx.Module("smart_websocket",
		fx.Provide(
			func(c *smartsvc.Client) service.SessionProvider { return c },
			service.NewClient,
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			s *service.Client,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go s.Run(ctx)
					return nil
				},
			})
		}),
	)
}
