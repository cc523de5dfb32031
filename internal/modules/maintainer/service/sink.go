package service

import (
	"context"
	"time"

	"tick_bot/internal/metrics"
	"tick_bot/internal/models"
	"tick_bot/internal/modules/config"
	"tick_bot/internal/notify"
	"tick_bot/pkg/logger"
)

// OrderPlacer выставляет рыночный ордер по сигналу.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, reg models.Registration, sig models.Signal) (string, error)
}

// Journal пишет сигнал в журнал.
type Journal interface {
	Insert(ctx context.Context, rec models.SignalRecord) error
}

// Sink — приёмник ненейтральных сигналов: ордер, журнал, уведомление.
// Ошибки ордера и журнала не роняют обработку: сигнал ценен сам по себе.
type Sink struct {
	orders  OrderPlacer
	journal Journal
	n       notify.Notifier
	place   bool
}

func NewSink(cfg *config.Config, orders OrderPlacer, journal Journal, n notify.Notifier) *Sink {
	return &Sink{
		orders:  orders,
		journal: journal,
		n:       n,
		place:   cfg.PlaceOrders,
	}
}

func (s *Sink) Emit(ctx context.Context, reg models.Registration, ev models.CandleClosed, sig models.Signal) {
	price := ev.Candle.Close

	var orderID string
	if s.place && s.orders != nil {
		id, err := s.orders.PlaceOrder(ctx, reg, sig)
		if err != nil {
			metrics.OrdersTotal.WithLabelValues("error").Inc()
			logger.Error("sink: order %s %s %s: %v", sig, reg.Symbol, reg.TF, err)
			s.n.Sendf("❗️ Ордер %s %s не прошёл: %v", sig, reg.Symbol, err)
		} else {
			orderID = id
			metrics.OrdersTotal.WithLabelValues("ok").Inc()
		}
	}

	if s.journal != nil {
		rec := models.SignalRecord{
			Token:    reg.Token,
			Symbol:   reg.Symbol,
			TF:       reg.TF,
			Strategy: reg.StrategyID,
			Signal:   sig,
			Price:    price,
			OrderID:  orderID,
			Params:   reg.Params,
			At:       time.Now(),
		}
		if err := s.journal.Insert(ctx, rec); err != nil {
			metrics.JournalErrors.Inc()
			logger.Error("sink: journal %s %s: %v", reg.Symbol, reg.TF, err)
		}
	}

	emoji := "📈"
	if sig == models.SignalSell {
		emoji = "📉"
	}
	s.n.Sendf("%s %s %s @ %.2f | %s %s | order=%s", emoji, sig, reg.Symbol, price, reg.StrategyID, reg.TF, orderID)
}
