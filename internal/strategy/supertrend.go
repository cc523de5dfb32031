package strategy

import (
	"fmt"
	"math"

	"tick_bot/internal/models"
)

// SuperTrend — пробой канала закрытий с фильтром направления SuperTrend.
// Сигнал только по направлению тренда: buy при пробое максимума предыдущего
// окна, sell при пробое минимума.
type SuperTrend struct{}

func NewSuperTrend() *SuperTrend { return &SuperTrend{} }

func (s *SuperTrend) Name() string { return "supertrend" }

func (s *SuperTrend) Evaluate(history []models.Candle, params models.StrategyParams) (models.Signal, error) {
	atrLen := paramInt(params, "atr_length", 14)
	mult := paramFloat(params, "atr_multiplier", 3)
	window := paramInt(params, "length", 10)

	n := len(history)
	need := atrLen + 2
	if window+1 > need {
		need = window + 1
	}
	if n < need {
		return models.SignalNeutral, fmt.Errorf("supertrend: need %d candles, got %d", need, n)
	}

	// TR и ATR по Уайлдеру: посев SMA, дальше rma
	trs := make([]float64, n)
	for i := 1; i < n; i++ {
		trs[i] = trueRange(history[i], history[i-1].Close)
	}

	atr := make([]float64, n)
	var sum float64
	for i := 1; i <= atrLen; i++ {
		sum += trs[i]
	}
	atr[atrLen] = sum / float64(atrLen)
	for i := atrLen + 1; i < n; i++ {
		atr[i] = (atr[i-1]*float64(atrLen-1) + trs[i]) / float64(atrLen)
	}

	// финальные полосы с храповиком и направление
	finalUpper := make([]float64, n)
	finalLower := make([]float64, n)
	dir := make([]int, n)

	for i := atrLen; i < n; i++ {
		mid := (history[i].High + history[i].Low) / 2
		ub := mid + mult*atr[i]
		lb := mid - mult*atr[i]

		if i == atrLen {
			finalUpper[i] = ub
			finalLower[i] = lb
			dir[i] = 1
			continue
		}

		if ub < finalUpper[i-1] || history[i-1].Close > finalUpper[i-1] {
			finalUpper[i] = ub
		} else {
			finalUpper[i] = finalUpper[i-1]
		}
		if lb > finalLower[i-1] || history[i-1].Close < finalLower[i-1] {
			finalLower[i] = lb
		} else {
			finalLower[i] = finalLower[i-1]
		}

		switch {
		case history[i].Close > finalUpper[i-1]:
			dir[i] = 1
		case history[i].Close < finalLower[i-1]:
			dir[i] = -1
		default:
			dir[i] = dir[i-1]
		}
	}

	// окно строго до последней свечи: пробой считаем против уже закрытых закрытий
	closes := make([]float64, 0, window)
	for _, c := range history[n-1-window : n-1] {
		closes = append(closes, c.Close)
	}
	last := history[n-1]

	switch {
	case dir[n-1] > 0 && last.Close > maxSlice(closes):
		return models.SignalBuy, nil
	case dir[n-1] < 0 && last.Close < minSlice(closes):
		return models.SignalSell, nil
	}

	return models.SignalNeutral, nil
}

func trueRange(c models.Candle, prevClose float64) float64 {
	tr := c.High - c.Low
	if d := math.Abs(c.High - prevClose); d > tr {
		tr = d
	}
	if d := math.Abs(c.Low - prevClose); d > tr {
		tr = d
	}
	return tr
}
