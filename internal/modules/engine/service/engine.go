package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"tick_bot/internal/metrics"
	"tick_bot/internal/models"
)

// Engine — агрегатор тиков в свечи по всем зарегистрированным сериям.
// Бакеты режутся по стенным часам loc.
type Engine struct {
	loc    *time.Location
	events chan models.CandleClosed

	mu     sync.RWMutex
	series map[string]map[models.Timeframe]*Series
}

func NewEngine(loc *time.Location, queueSize int) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Engine{
		loc:    loc,
		events: make(chan models.CandleClosed, queueSize),
		series: make(map[string]map[models.Timeframe]*Series),
	}
}

// Events — события закрытия свечей. Канал общий для всех серий.
func (e *Engine) Events() <-chan models.CandleClosed { return e.events }

func (e *Engine) Register(token string, tf models.Timeframe) error {
	if token == "" {
		return fmt.Errorf("register: empty token")
	}
	if tf.Step() <= 0 {
		return fmt.Errorf("register: unsupported timeframe %q", tf)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	byTF, ok := e.series[token]
	if !ok {
		byTF = make(map[models.Timeframe]*Series)
		e.series[token] = byTF
	}
	if _, ok := byTF[tf]; !ok {
		byTF[tf] = newSeries(token, tf)
	}
	return nil
}

// Seed сажает закрытую историю в серию, открывая приём тиков.
func (e *Engine) Seed(token string, tf models.Timeframe, history []models.Candle) error {
	e.mu.RLock()
	s := e.lookup(token, tf)
	e.mu.RUnlock()

	if s == nil {
		return fmt.Errorf("seed: series %s %s is not registered", token, tf)
	}
	s.seed(history)
	return nil
}

func (e *Engine) Unregister(token string, tf models.Timeframe) {
	e.mu.Lock()
	defer e.mu.Unlock()

	byTF, ok := e.series[token]
	if !ok {
		return
	}
	delete(byTF, tf)
	if len(byTF) == 0 {
		delete(e.series, token)
	}
}

func (e *Engine) UnregisterAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.series = make(map[string]map[models.Timeframe]*Series)
}

// Ingest раздаёт тик всем сериям его инструмента. Тик по чужому инструменту
// просто игнорируется.
func (e *Engine) Ingest(t models.Tick) {
	e.mu.RLock()
	byTF := e.series[t.Token]
	targets := make([]*Series, 0, len(byTF))
	for _, s := range byTF {
		targets = append(targets, s)
	}
	e.mu.RUnlock()

	if len(targets) == 0 {
		return
	}
	metrics.TicksTotal.WithLabelValues(t.Token).Inc()

	for _, s := range targets {
		switch s.apply(t, e.loc, e.events) {
		case rolled:
			metrics.CandlesClosed.WithLabelValues(s.token, string(s.tf)).Inc()
		case lateDrop:
			metrics.LateTicks.WithLabelValues(s.token, string(s.tf)).Inc()
			log.Printf("[ENGINE] late tick dropped: token=%s tf=%s ts=%s", s.token, s.tf, t.Ts)
		case pendingDrop:
			metrics.PendingTicks.WithLabelValues(s.token, string(s.tf)).Inc()
		}
	}
}

func (e *Engine) lookup(token string, tf models.Timeframe) *Series {
	byTF, ok := e.series[token]
	if !ok {
		return nil
	}
	return byTF[tf]
}
