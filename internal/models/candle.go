package models

import (
	"time"
)

type Candle struct {
	Start time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// CandleClosed — событие закрытия свечи. History — все закрытые свечи серии,
// последняя == Candle; формирующаяся свеча в снапшот не входит.
type CandleClosed struct {
	Token   string
	TF      Timeframe
	Candle  Candle
	History []Candle
}
