package models

import (
	"time"
)

// Tick — одно обновление цены по инструменту.
type Tick struct {
	Token string
	Price float64
	Ts    time.Time
}
