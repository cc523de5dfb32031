package smart_client

import (
	"context"
	"time"

	"go.uber.org/fx"

	"tick_bot/internal/modules/smart_client/service"
	"tick_bot/pkg/logger"
)

// токены SmartAPI живут до конца торгового дня
const renewEvery = 6 * time.Hour

func Module() fx.Option {
	return fx.Module("smart_client",
		fx.Provide(
			service.NewClient,
		),
		fx.Invoke(func(lc fx.Lifecycle, c *service.Client, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						t := time.NewTicker(renewEvery)
						defer t.Stop()
						for {
							select {
							case <-ctx.Done():
								return
							case <-t.C:
								if err := c.Renew(ctx); err != nil {
									logger.Error("smartapi: renew: %v", err)
								}
							}
						}
					}()
					return nil
				},
			})
		}),
	)
}
