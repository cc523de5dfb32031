package main

import (
	"context"

	"go.uber.org/fx"

	"tick_bot/internal/modules/bootstrap"
	"tick_bot/internal/modules/config"
	"tick_bot/internal/modules/engine"
	"tick_bot/internal/modules/health"
	"tick_bot/internal/modules/journal"
	"tick_bot/internal/modules/maintainer"
	"tick_bot/internal/modules/postgres"
	"tick_bot/internal/modules/smart_client"
	"tick_bot/internal/modules/smart_websocket"
	"tick_bot/internal/notify"
	"tick_bot/pkg/logger"
	"tick_bot/pkg/tracing"
)

func main() {
	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			// Notifier: если TELEGRAM_* нет — используем stdout
			func(cfg *config.Config) notify.Notifier {
				if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
					if tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID); err == nil {
						return tg
					}
				}
				return notify.NewStdout()
			},
		),
		config.Module(),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if err := logger.Init(cfg.LogLevel, "tick_bot"); err != nil {
				return err
			}
			if cfg.Jaeger.Host == "" {
				return nil
			}

			tracing.SetServiceName("tick_bot")
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					closeTracer()
					return nil
				},
			})
			return nil
		}),
		postgres.Module(),
		smart_client.Module(),
		smart_websocket.Module(),
		engine.Module(),
		maintainer.Module(),
		journal.Module(),
		health.Module(),
		bootstrap.Module(),
	)
	app.Run()
}
