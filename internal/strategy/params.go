package strategy

import (
	"tick_bot/internal/models"
)

func paramInt(p models.StrategyParams, key string, def int) int {
	if v, ok := p[key]; ok && v > 0 {
		return int(v)
	}
	return def
}

func paramFloat(p models.StrategyParams, key string, def float64) float64 {
	if v, ok := p[key]; ok && v > 0 {
		return v
	}
	return def
}
