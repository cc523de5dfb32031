package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tick_bot/internal/helper"
	"tick_bot/internal/models"
	"tick_bot/internal/modules/config"
	maintainersvc "tick_bot/internal/modules/maintainer/service"
	"tick_bot/internal/notify"
)

// Seeder поднимает привязки из конфига: параллельный бэкфилл с посевом.
type Seeder struct {
	cfg *config.Config
	m   *maintainersvc.Maintainer
	n   notify.Notifier

	// ограничитель параллелизма, чтобы не словить rate limit
	sem chan struct{}
}

func NewSeeder(cfg *config.Config, m *maintainersvc.Maintainer, n notify.Notifier) *Seeder {
	return &Seeder{
		cfg: cfg,
		m:   m,
		n:   n,
		sem: make(chan struct{}, 4),
	}
}

// Seed регистрирует все привязки и возвращает токены для подписки,
// сгруппированные по типу биржи.
func (s *Seeder) Seed(ctx context.Context) (map[int][]string, error) {
	regs := make([]models.Registration, 0, len(s.cfg.Registrations))
	for _, raw := range s.cfg.Registrations {
		tf, err := helper.ParseTF(raw.Timeframe)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", raw.Token, err)
		}

		exchange := raw.Exchange
		if exchange == "" {
			exchange = "NSE"
		}

		regs = append(regs, models.Registration{
			Token:      raw.Token,
			Symbol:     raw.Symbol,
			Exchange:   exchange,
			TF:         tf,
			StrategyID: raw.Strategy,
			Params:     raw.Params,
			MinHistory: raw.MinHistory,
		})
	}

	s.n.Sendf("🔥 Bootstrap: %d привязок, бэкфилл пошёл", len(regs))

	var wg sync.WaitGroup
	var firstErr error
	var mu sync.Mutex

	for _, reg := range regs {
		reg := reg
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.sem <- struct{}{}
			defer func() { <-s.sem }()

			if err := s.m.Add(ctx, reg); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if firstErr != nil {
		s.n.Sendf("⚠️ Bootstrap прерван: %v", firstErr)
		return nil, firstErr
	}

	// на подписку — только уникальные токены
	groups := make(map[int][]string)
	seen := make(map[string]struct{})
	for _, reg := range regs {
		if _, ok := seen[reg.Token]; ok {
			continue
		}
		seen[reg.Token] = struct{}{}
		ex := exchangeType(reg.Exchange)
		groups[ex] = append(groups[ex], reg.Token)
	}

	s.n.Sendf("✅ Bootstrap готов: %d серий, %d токенов в подписке", len(regs), len(seen))
	return groups, nil
}

func exchangeType(name string) int {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "NSE":
		return 1
	case "NFO":
		return 2
	case "BSE":
		return 3
	case "MCX":
		return 5
	default:
		return 1
	}
}
