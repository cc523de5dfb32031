package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tick_bot/internal/models"
)

// ramp — свечи с линейным закрытием: step > 0 рост, step < 0 падение, 0 флэт.
func ramp(n int, start, step float64) []models.Candle {
	base := time.Date(2025, 4, 7, 10, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	for i := range out {
		c := start + float64(i)*step
		out[i] = models.Candle{
			Start: base.Add(time.Duration(i) * time.Minute),
			Open:  c - step/2,
			High:  c + 0.5,
			Low:   c - 0.5,
			Close: c,
		}
	}
	return out
}

func TestFactory(t *testing.T) {
	f := NewFactory()

	s, err := f.Get("supertrend")
	require.NoError(t, err)
	assert.Equal(t, "supertrend", s.Name())

	s, err = f.Get("donchian")
	require.NoError(t, err)
	assert.Equal(t, "donchian", s.Name())

	_, err = f.Get("martingale")
	assert.Error(t, err)
}

func TestSuperTrend(t *testing.T) {
	st := NewSuperTrend()

	t.Run("rising ramp buys", func(t *testing.T) {
		sig, err := st.Evaluate(ramp(40, 100, 1), nil)
		require.NoError(t, err)
		assert.Equal(t, models.SignalBuy, sig)
	})

	t.Run("falling ramp sells", func(t *testing.T) {
		sig, err := st.Evaluate(ramp(40, 140, -1), nil)
		require.NoError(t, err)
		assert.Equal(t, models.SignalSell, sig)
	})

	t.Run("flat is neutral", func(t *testing.T) {
		sig, err := st.Evaluate(ramp(40, 100, 0), nil)
		require.NoError(t, err)
		assert.Equal(t, models.SignalNeutral, sig)
	})

	t.Run("short history errors", func(t *testing.T) {
		_, err := st.Evaluate(ramp(10, 100, 1), nil)
		assert.Error(t, err)
	})

	t.Run("params shrink the warmup", func(t *testing.T) {
		params := models.StrategyParams{"atr_length": 5, "length": 3}
		sig, err := st.Evaluate(ramp(12, 100, 1), params)
		require.NoError(t, err)
		assert.Equal(t, models.SignalBuy, sig)
	})
}

func TestDonchian(t *testing.T) {
	d := NewDonchian()

	t.Run("rising ramp buys", func(t *testing.T) {
		sig, err := d.Evaluate(ramp(60, 100, 1), nil)
		require.NoError(t, err)
		assert.Equal(t, models.SignalBuy, sig)
	})

	t.Run("falling ramp sells", func(t *testing.T) {
		sig, err := d.Evaluate(ramp(60, 200, -1), nil)
		require.NoError(t, err)
		assert.Equal(t, models.SignalSell, sig)
	})

	t.Run("flat is neutral", func(t *testing.T) {
		sig, err := d.Evaluate(ramp(60, 100, 0), nil)
		require.NoError(t, err)
		assert.Equal(t, models.SignalNeutral, sig)
	})

	t.Run("short history errors", func(t *testing.T) {
		_, err := d.Evaluate(ramp(30, 100, 1), nil)
		assert.Error(t, err)
	})

	t.Run("params shrink the warmup", func(t *testing.T) {
		params := models.StrategyParams{"period": 5, "trend_ema": 10}
		sig, err := d.Evaluate(ramp(15, 100, 1), params)
		require.NoError(t, err)
		assert.Equal(t, models.SignalBuy, sig)
	})
}
