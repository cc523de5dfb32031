package service

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/opentracing/opentracing-go"

	"tick_bot/internal/metrics"
	"tick_bot/internal/models"
	"tick_bot/internal/strategy"
	"tick_bot/pkg/logger"
)

// Dispatcher развозит закрытия свечей по шардам и зовёт стратегии.
// Шард выбирается по (token, tf), так что события одной серии всегда
// обрабатываются последовательно и в порядке закрытия.
type Dispatcher struct {
	m       *Maintainer
	factory *strategy.Factory
	sink    *Sink

	queues []chan models.CandleClosed
	wg     sync.WaitGroup
}

func NewDispatcher(m *Maintainer, factory *strategy.Factory, sink *Sink, shards, queueSize int) *Dispatcher {
	if shards <= 0 {
		shards = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}

	queues := make([]chan models.CandleClosed, shards)
	for i := range queues {
		queues[i] = make(chan models.CandleClosed, queueSize)
	}
	return &Dispatcher{
		m:       m,
		factory: factory,
		sink:    sink,
		queues:  queues,
	}
}

// Run качает события из движка в шарды до отмены ctx.
func (d *Dispatcher) Run(ctx context.Context, events <-chan models.CandleClosed) {
	for _, q := range d.queues {
		d.wg.Add(1)
		go d.worker(ctx, q)
	}
	defer func() {
		for _, q := range d.queues {
			close(q)
		}
		d.wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			q := d.queues[shard(ev.Token, ev.TF, len(d.queues))]
			select {
			case q <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (d *Dispatcher) worker(ctx context.Context, q <-chan models.CandleClosed) {
	defer d.wg.Done()
	for ev := range q {
		d.handle(ctx, ev)
	}
}

func shard(token string, tf models.Timeframe, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key(token, tf)))
	return int(h.Sum32() % uint32(n))
}

func (d *Dispatcher) handle(ctx context.Context, ev models.CandleClosed) {
	defer func() {
		if p := recover(); p != nil {
			metrics.DispatchErrors.WithLabelValues(ev.Token, string(ev.TF), "panic").Inc()
			logger.Error("dispatch: panic on %s %s: %v", ev.Token, ev.TF, p)
		}
	}()

	reg, ok := d.m.Resolve(ev.Token, ev.TF)
	if !ok {
		// серия пережила привязку (preserve_history), событие никому не нужно
		return
	}

	span := opentracing.GlobalTracer().StartSpan("dispatch")
	span.SetTag("token", ev.Token)
	span.SetTag("tf", string(ev.TF))
	span.SetTag("strategy", reg.StrategyID)
	defer span.Finish()

	if len(ev.History) < reg.MinHistory {
		metrics.DispatchSkips.WithLabelValues(ev.Token, string(ev.TF)).Inc()
		return
	}

	impl, err := d.factory.Get(reg.StrategyID)
	if err != nil {
		metrics.DispatchErrors.WithLabelValues(ev.Token, string(ev.TF), "unknown_strategy").Inc()
		logger.Error("dispatch: %v", err)
		return
	}

	sig, err := impl.Evaluate(ev.History, reg.Params)
	if err != nil {
		metrics.DispatchErrors.WithLabelValues(ev.Token, string(ev.TF), "evaluate").Inc()
		logger.Error("dispatch: %s on %s %s: %v", reg.StrategyID, ev.Token, ev.TF, err)
		return
	}

	metrics.SignalsTotal.WithLabelValues(ev.Token, string(ev.TF), string(sig)).Inc()
	if sig == models.SignalNeutral {
		return
	}

	d.sink.Emit(ctx, reg, ev, sig)
}
