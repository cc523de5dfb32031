package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tick_bot/internal/models"
)

func TestEngineRegisterValidation(t *testing.T) {
	e := NewEngine(time.UTC, 8)

	assert.Error(t, e.Register("", models.TF1m))
	assert.Error(t, e.Register("3045", models.Timeframe("2m")))
	assert.NoError(t, e.Register("3045", models.TF1m))
	// повторная регистрация той же пары безвредна
	assert.NoError(t, e.Register("3045", models.TF1m))
}

func TestEngineSeedUnregistered(t *testing.T) {
	e := NewEngine(time.UTC, 8)
	assert.Error(t, e.Seed("404", models.TF1m, nil))
}

func TestEngineIngestUnknownTokenIsNoop(t *testing.T) {
	e := NewEngine(time.UTC, 8)
	require.NoError(t, e.Register("3045", models.TF1m))
	require.NoError(t, e.Seed("3045", models.TF1m, nil))

	e.Ingest(models.Tick{Token: "999", Price: 1, Ts: base})
	assert.Len(t, e.Events(), 0)
}

// Один тик раздаётся всем таймфреймам инструмента, закрытия независимы.
func TestEngineMultiTimeframeFanout(t *testing.T) {
	e := NewEngine(time.UTC, 8)
	require.NoError(t, e.Register("3045", models.TF1m))
	require.NoError(t, e.Register("3045", models.TF5m))
	require.NoError(t, e.Seed("3045", models.TF1m, nil))
	require.NoError(t, e.Seed("3045", models.TF5m, nil))

	e.Ingest(tick(100, 0))
	e.Ingest(tick(101, 30*time.Second))
	assert.Len(t, e.Events(), 0)

	// минута закрылась, пятиминутка ещё нет
	e.Ingest(tick(102, time.Minute+time.Second))
	require.Len(t, e.Events(), 1)
	ev := <-e.Events()
	assert.Equal(t, models.TF1m, ev.TF)
	assert.Equal(t, 101.0, ev.Candle.Close)

	// пятая минута закрывает обе
	e.Ingest(tick(110, 5*time.Minute+time.Second))
	require.Len(t, e.Events(), 2)

	got := map[models.Timeframe]models.CandleClosed{}
	for i := 0; i < 2; i++ {
		ev := <-e.Events()
		got[ev.TF] = ev
	}
	assert.Equal(t, 102.0, got[models.TF1m].Candle.Close)
	assert.Equal(t, 102.0, got[models.TF5m].Candle.Close)
	assert.True(t, got[models.TF5m].Candle.Start.Equal(base))
}

func TestEngineUnregisterStopsSeries(t *testing.T) {
	e := NewEngine(time.UTC, 8)
	require.NoError(t, e.Register("3045", models.TF1m))
	require.NoError(t, e.Seed("3045", models.TF1m, nil))

	e.Ingest(tick(100, 0))
	e.Unregister("3045", models.TF1m)

	e.Ingest(tick(105, time.Minute))
	assert.Len(t, e.Events(), 0)
}

// После удаления и новой регистрации серия начинает с чистой истории.
func TestEngineReseedFreshHistory(t *testing.T) {
	e := NewEngine(time.UTC, 8)
	require.NoError(t, e.Register("3045", models.TF1m))
	require.NoError(t, e.Seed("3045", models.TF1m, []models.Candle{
		{Start: base.Add(-3 * time.Minute), Open: 1, High: 1, Low: 1, Close: 1},
		{Start: base.Add(-2 * time.Minute), Open: 2, High: 2, Low: 2, Close: 2},
		{Start: base.Add(-1 * time.Minute), Open: 3, High: 3, Low: 3, Close: 3},
	}))

	e.Unregister("3045", models.TF1m)
	require.NoError(t, e.Register("3045", models.TF1m))

	// до нового посева тики отбрасываются
	e.Ingest(tick(100, 0))
	assert.Len(t, e.Events(), 0)

	require.NoError(t, e.Seed("3045", models.TF1m, []models.Candle{
		{Start: base.Add(-1 * time.Minute), Open: 9, High: 9, Low: 9, Close: 9},
		{Start: base, Open: 10, High: 10, Low: 10, Close: 10},
	}))

	e.Ingest(tick(105, time.Minute))
	require.Len(t, e.Events(), 1)
	ev := <-e.Events()
	require.Len(t, ev.History, 2)
	assert.Equal(t, 9.0, ev.History[0].Close)
	assert.Equal(t, 10.0, ev.Candle.Close)
}

func TestEngineUnregisterAll(t *testing.T) {
	e := NewEngine(time.UTC, 8)
	require.NoError(t, e.Register("3045", models.TF1m))
	require.NoError(t, e.Register("2885", models.TF5m))
	e.UnregisterAll()

	assert.Error(t, e.Seed("3045", models.TF1m, nil))
	assert.Error(t, e.Seed("2885", models.TF5m, nil))
}

// Параллельный ingest разных инструментов: события каждой серии приходят
// в порядке закрытия бакетов.
func TestEngineConcurrentIngestKeepsPerSeriesOrder(t *testing.T) {
	e := NewEngine(time.UTC, 64)
	tokens := []string{"3045", "2885"}
	for _, tok := range tokens {
		require.NoError(t, e.Register(tok, models.TF1m))
		require.NoError(t, e.Seed(tok, models.TF1m, nil))
	}

	const minutes = 10
	var wg sync.WaitGroup
	for _, tok := range tokens {
		tok := tok
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := 0; m < minutes; m++ {
				e.Ingest(models.Tick{Token: tok, Price: float64(100 + m), Ts: base.Add(time.Duration(m) * time.Minute)})
			}
		}()
	}
	wg.Wait()

	// по minutes-1 закрытий на инструмент
	require.Len(t, e.Events(), len(tokens)*(minutes-1))

	lastStart := map[string]time.Time{}
	for i := 0; i < len(tokens)*(minutes-1); i++ {
		ev := <-e.Events()
		if prev, ok := lastStart[ev.Token]; ok {
			assert.True(t, ev.Candle.Start.After(prev), "token %s out of order", ev.Token)
		}
		lastStart[ev.Token] = ev.Candle.Start
	}
}
