package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tick_bot/internal/models"
)

var base = time.Date(2025, 4, 7, 10, 0, 0, 0, time.UTC)

func tick(price float64, offset time.Duration) models.Tick {
	return models.Tick{Token: "3045", Price: price, Ts: base.Add(offset)}
}

func TestSeriesAggregatesOpenCandle(t *testing.T) {
	s := newSeries("3045", models.TF1m)
	s.seed(nil)
	out := make(chan models.CandleClosed, 4)

	prices := []float64{100, 102, 98, 101}
	for i, p := range prices {
		res := s.apply(tick(p, time.Duration(i)*time.Second), time.UTC, out)
		assert.Equal(t, applied, res)
	}

	require.NotNil(t, s.open)
	assert.Equal(t, 100.0, s.open.Open)
	assert.Equal(t, 102.0, s.open.High)
	assert.Equal(t, 98.0, s.open.Low)
	assert.Equal(t, 101.0, s.open.Close)
	assert.True(t, s.open.Start.Equal(base))
	assert.Empty(t, s.closed)
	assert.Len(t, out, 0)
}

func TestSeriesRollover(t *testing.T) {
	s := newSeries("3045", models.TF1m)
	s.seed(nil)
	out := make(chan models.CandleClosed, 4)

	for i, p := range []float64{100, 102, 98, 101} {
		s.apply(tick(p, time.Duration(i)*time.Second), time.UTC, out)
	}

	res := s.apply(tick(105, 65*time.Second), time.UTC, out)
	assert.Equal(t, rolled, res)
	require.Len(t, out, 1)

	ev := <-out
	assert.Equal(t, "3045", ev.Token)
	assert.Equal(t, models.TF1m, ev.TF)
	assert.True(t, ev.Candle.Start.Equal(base))
	assert.Equal(t, 100.0, ev.Candle.Open)
	assert.Equal(t, 102.0, ev.Candle.High)
	assert.Equal(t, 98.0, ev.Candle.Low)
	assert.Equal(t, 101.0, ev.Candle.Close)

	// история заканчивается закрытой свечой, формирующаяся не входит
	require.Len(t, ev.History, 1)
	assert.Equal(t, ev.Candle, ev.History[0])

	// новая формирующаяся открыта ценой тика
	require.NotNil(t, s.open)
	assert.True(t, s.open.Start.Equal(base.Add(time.Minute)))
	assert.Equal(t, 105.0, s.open.Open)
	assert.Equal(t, 105.0, s.open.Close)
}

func TestSeriesLateTickDropped(t *testing.T) {
	s := newSeries("3045", models.TF1m)
	s.seed(nil)
	out := make(chan models.CandleClosed, 4)

	s.apply(tick(100, 0), time.UTC, out)
	s.apply(tick(105, 65*time.Second), time.UTC, out)
	<-out

	res := s.apply(tick(1, 30*time.Second), time.UTC, out)
	assert.Equal(t, lateDrop, res)

	// серия не изменилась
	assert.Equal(t, 105.0, s.open.Close)
	require.Len(t, s.closed, 1)
	assert.Equal(t, 100.0, s.closed[0].Close)
	assert.Len(t, out, 0)
}

func TestSeriesUnseededDropsTicks(t *testing.T) {
	s := newSeries("3045", models.TF1m)
	out := make(chan models.CandleClosed, 1)

	res := s.apply(tick(100, 0), time.UTC, out)
	assert.Equal(t, pendingDrop, res)
	assert.Nil(t, s.open)
	assert.Empty(t, s.closed)
}

func TestSeriesSeed(t *testing.T) {
	s := newSeries("3045", models.TF5m)
	hist := []models.Candle{
		{Start: base, Open: 1, High: 2, Low: 0.5, Close: 1.5},
		{Start: base.Add(5 * time.Minute), Open: 1.5, High: 3, Low: 1, Close: 2},
		{Start: base.Add(10 * time.Minute), Open: 2, High: 4, Low: 2, Close: 3},
	}
	s.seed(hist)

	// последняя свеча истории считается формирующейся
	assert.Len(t, s.closed, 2)
	require.NotNil(t, s.open)
	assert.True(t, s.open.Start.Equal(base.Add(10*time.Minute)))
	assert.Equal(t, 3.0, s.open.Close)
}

func TestSeriesSeedEmpty(t *testing.T) {
	s := newSeries("3045", models.TF1m)
	s.seed(nil)
	out := make(chan models.CandleClosed, 1)

	assert.Nil(t, s.open)

	// первый тик открывает свечу без события
	res := s.apply(tick(100, 0), time.UTC, out)
	assert.Equal(t, applied, res)
	assert.Len(t, out, 0)
}

// Пропуск бакетов не синтезирует пустые свечи: одно событие на один ролловер.
func TestSeriesGapNoSynthesis(t *testing.T) {
	s := newSeries("3045", models.TF1m)
	s.seed(nil)
	out := make(chan models.CandleClosed, 4)

	s.apply(tick(100, 0), time.UTC, out)
	res := s.apply(tick(103, 3*time.Minute), time.UTC, out)
	assert.Equal(t, rolled, res)
	require.Len(t, out, 1)

	ev := <-out
	require.Len(t, ev.History, 1)
	assert.True(t, s.open.Start.Equal(base.Add(3*time.Minute)))
}

// Снапшот истории из события не меняется последующими ролловерами.
func TestSeriesHistorySnapshotImmutable(t *testing.T) {
	s := newSeries("3045", models.TF1m)
	s.seed(nil)
	out := make(chan models.CandleClosed, 4)

	s.apply(tick(100, 0), time.UTC, out)
	s.apply(tick(101, time.Minute), time.UTC, out)
	ev1 := <-out

	s.apply(tick(102, 2*time.Minute), time.UTC, out)
	ev2 := <-out

	require.Len(t, ev1.History, 1)
	assert.Equal(t, 100.0, ev1.History[0].Open)

	require.Len(t, ev2.History, 2)
	assert.Equal(t, 100.0, ev2.History[0].Open)
	assert.Equal(t, 101.0, ev2.History[1].Open)
}

// Повторный посев не должен трогать массив, на который смотрят старые события.
func TestSeriesReseedDoesNotAliasSnapshots(t *testing.T) {
	s := newSeries("3045", models.TF1m)
	s.seed(nil)
	out := make(chan models.CandleClosed, 4)

	s.apply(tick(100, 0), time.UTC, out)
	s.apply(tick(101, time.Minute), time.UTC, out)
	ev := <-out
	require.Len(t, ev.History, 1)

	s.seed([]models.Candle{
		{Start: base.Add(10 * time.Minute), Open: 7, High: 7, Low: 7, Close: 7},
	})

	assert.Equal(t, 100.0, ev.History[0].Open)
	require.NotNil(t, s.open)
	assert.Equal(t, 7.0, s.open.Open)
	assert.Empty(t, s.closed)
}
