package models

type StrategyParams map[string]float64

// Registration — привязка (инструмент, таймфрейм) -> стратегия.
type Registration struct {
	Token      string
	Symbol     string
	Exchange   string
	TF         Timeframe
	StrategyID string
	Params     StrategyParams
	MinHistory int
}
