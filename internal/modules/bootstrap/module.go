package bootstrap

import (
	"context"
	"log"

	"go.uber.org/fx"

	bootstrap "tick_bot/internal/modules/bootstrap/service"
	enginesvc "tick_bot/internal/modules/engine/service"
	healthsvc "tick_bot/internal/modules/health/service"
	smartsvc "tick_bot/internal/modules/smart_client/service"
	wssvc "tick_bot/internal/modules/smart_websocket/service"
)

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			bootstrap.NewSeeder,
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			seeder *bootstrap.Seeder,
			client *smartsvc.Client,
			stream *wssvc.Client,
			eng *enginesvc.Engine,
			state *healthsvc.State,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					// насос: тики из стрима в движок
					go func() {
						for {
							select {
							case <-ctx.Done():
								return
							case t, ok := <-stream.Ticks():
								if !ok {
									return
								}
								eng.Ingest(t)
							}
						}
					}()

					go func() {
						if err := client.Login(ctx); err != nil {
							log.Printf("[BOOT] login error: %v", err)
							return
						}

						groups, err := seeder.Seed(ctx)
						if err != nil {
							log.Printf("[BOOT] seed error: %v", err)
							return
						}

						total := 0
						for ex, tokens := range groups {
							if err := stream.Subscribe(ex, tokens); err != nil {
								log.Printf("[BOOT] subscribe ex=%d error: %v", ex, err)
							}
							total += len(tokens)
						}

						state.SetReady(true)
						log.Printf("[BOOT] ready: %d tokens", total)
					}()
					return nil
				},
			})
		}),
	)
}
