package models

import (
	"time"
)

type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF3m  Timeframe = "3m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
)

// Step возвращает длину бакета. 0 — таймфрейм не поддерживается.
func (tf Timeframe) Step() time.Duration {
	switch tf {
	case TF1m:
		return time.Minute
	case TF3m:
		return 3 * time.Minute
	case TF5m:
		return 5 * time.Minute
	case TF15m:
		return 15 * time.Minute
	case TF30m:
		return 30 * time.Minute
	case TF1h:
		return time.Hour
	}
	return 0
}

// APIName — имя интервала в историческом API SmartAPI.
func (tf Timeframe) APIName() string {
	switch tf {
	case TF1m:
		return "ONE_MINUTE"
	case TF3m:
		return "THREE_MINUTE"
	case TF5m:
		return "FIVE_MINUTE"
	case TF15m:
		return "FIFTEEN_MINUTE"
	case TF30m:
		return "THIRTY_MINUTE"
	case TF1h:
		return "ONE_HOUR"
	}
	return ""
}
