package models

import (
	"time"
)

type Signal string

const (
	SignalBuy     Signal = "buy"
	SignalSell    Signal = "sell"
	SignalNeutral Signal = "neutral"
)

// SignalRecord — строка журнала сигналов.
type SignalRecord struct {
	Token    string
	Symbol   string
	TF       Timeframe
	Strategy string
	Signal   Signal
	Price    float64
	OrderID  string
	Params   StrategyParams
	At       time.Time
}
