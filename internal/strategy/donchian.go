package strategy

import (
	"fmt"

	"tick_bot/internal/models"
)

// Donchian — пробой канала Дончиана с EMA-фильтром тренда. Канал считается
// по окну строго до последней свечи, иначе пробой не случится никогда:
// текущий high сам поднимает верхнюю границу.
type Donchian struct{}

func NewDonchian() *Donchian { return &Donchian{} }

func (s *Donchian) Name() string { return "donchian" }

func (s *Donchian) Evaluate(history []models.Candle, params models.StrategyParams) (models.Signal, error) {
	period := paramInt(params, "period", 20)
	trendEma := paramInt(params, "trend_ema", 50)

	n := len(history)
	need := period + 1
	if trendEma > need {
		need = trendEma
	}
	if n < need {
		return models.SignalNeutral, fmt.Errorf("donchian: need %d candles, got %d", need, n)
	}

	highs := make([]float64, 0, period)
	lows := make([]float64, 0, period)
	for _, c := range history[n-1-period : n-1] {
		highs = append(highs, c.High)
		lows = append(lows, c.Low)
	}

	dh := maxSlice(highs)
	dl := minSlice(lows)
	ema := emaOver(history, trendEma)
	last := history[n-1]

	// фильтр тренда: торгуем только в сторону EMA
	switch {
	case last.Close > dh && last.Close > ema:
		return models.SignalBuy, nil
	case last.Close < dl && last.Close < ema:
		return models.SignalSell, nil
	}

	return models.SignalNeutral, nil
}

func emaOver(history []models.Candle, period int) float64 {
	if period <= 1 {
		period = 1
	}
	alpha := 2.0 / (float64(period) + 1)

	v := history[0].Close
	for _, c := range history[1:] {
		v = alpha*c.Close + (1-alpha)*v
	}
	return v
}

// вспомогательные
func maxSlice(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, v := range xs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minSlice(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, v := range xs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
