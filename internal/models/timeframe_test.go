package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeframeStep(t *testing.T) {
	cases := []struct {
		tf   Timeframe
		step time.Duration
	}{
		{TF1m, time.Minute},
		{TF3m, 3 * time.Minute},
		{TF5m, 5 * time.Minute},
		{TF15m, 15 * time.Minute},
		{TF30m, 30 * time.Minute},
		{TF1h, time.Hour},
		{Timeframe("2m"), 0},
		{Timeframe(""), 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.step, tc.tf.Step(), "tf=%q", tc.tf)
	}
}

func TestTimeframeAPIName(t *testing.T) {
	cases := map[Timeframe]string{
		TF1m:             "ONE_MINUTE",
		TF3m:             "THREE_MINUTE",
		TF5m:             "FIVE_MINUTE",
		TF15m:            "FIFTEEN_MINUTE",
		TF30m:            "THIRTY_MINUTE",
		TF1h:             "ONE_HOUR",
		Timeframe("10m"): "",
	}
	for tf, want := range cases {
		assert.Equal(t, want, tf.APIName(), "tf=%q", tf)
	}
}
