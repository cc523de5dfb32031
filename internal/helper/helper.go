package helper

import (
	"fmt"
	"strings"
	"time"

	"tick_bot/internal/models"
)

func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "60m", "60min", "1h":
		return "1h"
	case "30m", "30min":
		return "30m"
	case "15m", "15min":
		return "15m"
	case "5m", "5min":
		return "5m"
	case "3m", "3min":
		return "3m"
	case "1m", "1min":
		return "1m"
	default:
		return s
	}
}

func ParseTF(raw string) (models.Timeframe, error) {
	tf := models.Timeframe(NormTF(raw))
	if tf.Step() <= 0 {
		return "", fmt.Errorf("unsupported timeframe %q", raw)
	}
	return tf, nil
}

// BucketStart — начало бакета для ts: пол по шагу в стенных часах loc.
func BucketStart(ts time.Time, step time.Duration, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	_, off := ts.In(loc).Zone()
	sec := ts.Unix() + int64(off)
	stepSec := int64(step / time.Second)
	sec -= sec % stepSec
	return time.Unix(sec-int64(off), 0).In(loc)
}
