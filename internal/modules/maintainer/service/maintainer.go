package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tick_bot/internal/metrics"
	"tick_bot/internal/models"
	"tick_bot/internal/modules/config"
	enginesvc "tick_bot/internal/modules/engine/service"
	"tick_bot/internal/notify"
	"tick_bot/pkg/logger"
)

// HistoryProvider — источник закрытой истории для посева серии.
type HistoryProvider interface {
	GetCandles(ctx context.Context, exchange, token string, tf models.Timeframe, from, to time.Time) ([]models.Candle, error)
}

// Maintainer ведёт реестр привязок и жизненный цикл серий в движке.
type Maintainer struct {
	cfg    *config.Config
	engine *enginesvc.Engine
	hist   HistoryProvider
	n      notify.Notifier

	mu   sync.RWMutex
	regs map[string]*models.Registration
}

func NewMaintainer(cfg *config.Config, engine *enginesvc.Engine, hist HistoryProvider, n notify.Notifier) *Maintainer {
	return &Maintainer{
		cfg:    cfg,
		engine: engine,
		hist:   hist,
		n:      n,
		regs:   make(map[string]*models.Registration),
	}
}

func key(token string, tf models.Timeframe) string {
	return token + "::" + string(tf)
}

// Add регистрирует привязку: серия в движке, бэкфилл, посев. Повторный Add
// той же пары пересеивает серию свежей историей.
func (m *Maintainer) Add(ctx context.Context, reg models.Registration) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Maintainer.Add %s %s: %w", reg.Token, reg.TF, err)
		}
	}()

	if reg.Token == "" {
		return fmt.Errorf("empty token")
	}
	if reg.StrategyID == "" {
		return fmt.Errorf("empty strategy")
	}

	if err := m.engine.Register(reg.Token, reg.TF); err != nil {
		return err
	}

	history := m.fetchHistory(ctx, reg)
	if err := m.engine.Seed(reg.Token, reg.TF, history); err != nil {
		return err
	}

	m.mu.Lock()
	m.regs[key(reg.Token, reg.TF)] = &reg
	m.mu.Unlock()

	logger.Info("maintainer: added %s %s strategy=%s history=%d", reg.Token, reg.TF, reg.StrategyID, len(history))
	return nil
}

// fetchHistory — бэкфилл. Ошибка не фатальна: серия стартует пустой,
// стратегию придержит min_history.
func (m *Maintainer) fetchHistory(ctx context.Context, reg models.Registration) []models.Candle {
	if m.hist == nil {
		return nil
	}

	from, to := m.backfillWindow(time.Now())
	history, err := m.hist.GetCandles(ctx, reg.Exchange, reg.Token, reg.TF, from, to)
	if err != nil {
		metrics.BackfillFailures.WithLabelValues(reg.Token, string(reg.TF)).Inc()
		logger.Error("maintainer: backfill %s %s: %v", reg.Token, reg.TF, err)
		m.n.Sendf("⚠️ Бэкфилл %s %s не удался: серия стартует без истории", reg.Symbol, reg.TF)
		return nil
	}
	return history
}

// backfillWindow — от открытия торгов за BackfillDays дней назад до конца
// завтрашней ночной сессии по биржевым часам.
func (m *Maintainer) backfillWindow(now time.Time) (time.Time, time.Time) {
	loc := m.cfg.Location()
	days := m.cfg.BackfillDays
	if days <= 0 {
		days = 2
	}

	local := now.In(loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 9, 15, 0, 0, loc).AddDate(0, 0, -days)
	to := time.Date(local.Year(), local.Month(), local.Day(), 3, 30, 0, 0, loc).AddDate(0, 0, 1)
	return from, to
}

// Remove снимает привязку. Историю серии по умолчанию выбрасываем,
// preserve_history оставляет её до следующего Add.
func (m *Maintainer) Remove(token string, tf models.Timeframe) error {
	m.mu.Lock()
	k := key(token, tf)
	_, ok := m.regs[k]
	if ok {
		delete(m.regs, k)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("Maintainer.Remove %s %s: not registered", token, tf)
	}

	if !m.cfg.PreserveHistory {
		m.engine.Unregister(token, tf)
	}

	logger.Info("maintainer: removed %s %s", token, tf)
	return nil
}

func (m *Maintainer) RemoveAll() {
	m.mu.Lock()
	count := len(m.regs)
	m.regs = make(map[string]*models.Registration)
	m.mu.Unlock()

	if !m.cfg.PreserveHistory {
		m.engine.UnregisterAll()
	}

	logger.Info("maintainer: removed all (%d)", count)
}

// Resolve — привязка по паре, копия.
func (m *Maintainer) Resolve(token string, tf models.Timeframe) (models.Registration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.regs[key(token, tf)]
	if !ok {
		return models.Registration{}, false
	}
	return *r, true
}
