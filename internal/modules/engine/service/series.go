package service

import (
	"sync"
	"time"

	"tick_bot/internal/helper"
	"tick_bot/internal/models"
)

type applyResult int

const (
	applied applyResult = iota
	rolled
	pendingDrop
	lateDrop
)

// Series — одна пара (инструмент, таймфрейм): закрытая история и
// формирующаяся свеча. До посева тики не принимаем.
type Series struct {
	mu sync.Mutex

	token string
	tf    models.Timeframe
	step  time.Duration

	seeded bool
	closed []models.Candle
	open   *models.Candle
}

func newSeries(token string, tf models.Timeframe) *Series {
	return &Series{
		token: token,
		tf:    tf,
		step:  tf.Step(),
	}
}

// seed — закрытая история с бэкфилла. Последняя свеча истории считается ещё
// не закрытой и становится формирующейся. Слайс всегда свежий: снапшоты
// прежних событий не должны делить с серией один массив.
func (s *Series) seed(history []models.Candle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(history)
	s.closed = make([]models.Candle, 0, n)
	s.open = nil

	if n > 0 {
		s.closed = append(s.closed, history[:n-1]...)
		last := history[n-1]
		s.open = &last
	}

	s.seeded = true
}

// apply обновляет серию одним тиком. Мьютекс держим и на отправке события:
// так события одной серии уходят строго в порядке закрытия.
func (s *Series) apply(t models.Tick, loc *time.Location, out chan<- models.CandleClosed) applyResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seeded {
		return pendingDrop
	}

	b := helper.BucketStart(t.Ts, s.step, loc)

	if s.open == nil {
		s.open = &models.Candle{Start: b, Open: t.Price, High: t.Price, Low: t.Price, Close: t.Price}
		return applied
	}

	switch {
	case b.Equal(s.open.Start):
		if t.Price > s.open.High {
			s.open.High = t.Price
		}
		if t.Price < s.open.Low {
			s.open.Low = t.Price
		}
		s.open.Close = t.Price
		return applied

	case b.After(s.open.Start):
		s.closed = append(s.closed, *s.open)
		hist := s.closed[:len(s.closed):len(s.closed)]

		s.open = &models.Candle{Start: b, Open: t.Price, High: t.Price, Low: t.Price, Close: t.Price}

		out <- models.CandleClosed{
			Token:   s.token,
			TF:      s.tf,
			Candle:  hist[len(hist)-1],
			History: hist,
		}
		return rolled
	}

	// тик из уже закрытого бакета
	return lateDrop
}
