package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tick_bot_ticks_total",
		Help: "Ticks accepted per token",
	}, []string{"token"})

	LateTicks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tick_bot_late_ticks_total",
		Help: "Ticks dropped because they belong to an already closed bucket",
	}, []string{"token", "tf"})

	PendingTicks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tick_bot_pending_ticks_total",
		Help: "Ticks dropped while the series was waiting for its seed",
	}, []string{"token", "tf"})

	CandlesClosed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tick_bot_candles_closed_total",
		Help: "Closed candles per series",
	}, []string{"token", "tf"})

	BackfillFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tick_bot_backfill_failures_total",
		Help: "History backfill attempts that failed",
	}, []string{"token", "tf"})

	DispatchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tick_bot_dispatch_errors_total",
		Help: "Strategy dispatch failures by kind",
	}, []string{"token", "tf", "kind"})

	DispatchSkips = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tick_bot_dispatch_skips_total",
		Help: "Dispatches skipped because history is shorter than min_history",
	}, []string{"token", "tf"})

	SignalsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tick_bot_signals_total",
		Help: "Strategy verdicts per series",
	}, []string{"token", "tf", "signal"})

	OrdersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tick_bot_orders_total",
		Help: "Order placement attempts by status",
	}, []string{"status"})

	JournalErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tick_bot_journal_errors_total",
		Help: "Failed signal journal inserts",
	})

	BadFrames = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tick_bot_bad_frames_total",
		Help: "Binary feed frames that failed to parse",
	})
)

func init() {
	prometheus.MustRegister(
		TicksTotal,
		LateTicks,
		PendingTicks,
		CandlesClosed,
		BackfillFailures,
		DispatchErrors,
		DispatchSkips,
		SignalsTotal,
		OrdersTotal,
		JournalErrors,
		BadFrames,
	)
}
