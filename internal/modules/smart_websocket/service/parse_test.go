package service

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ltpFrame(token string, tsMs int64, ltpPaise uint64) []byte {
	b := make([]byte, ltpFrameSize)
	b[0] = 1 // mode LTP
	b[1] = 1 // NSE
	copy(b[2:27], token)
	binary.LittleEndian.PutUint64(b[27:35], 7)
	binary.LittleEndian.PutUint64(b[35:43], uint64(tsMs))
	binary.LittleEndian.PutUint64(b[43:51], ltpPaise)
	return b
}

func TestParseLTP(t *testing.T) {
	ts := time.Date(2025, 4, 7, 10, 15, 42, 0, time.UTC)

	tick, err := ParseLTP(ltpFrame("3045", ts.UnixMilli(), 81235))
	require.NoError(t, err)

	assert.Equal(t, "3045", tick.Token)
	assert.Equal(t, 812.35, tick.Price)
	assert.True(t, tick.Ts.Equal(ts))
}

func TestParseLTPLongFrame(t *testing.T) {
	// полный snap-quote кадр длиннее, хвост игнорируем
	b := append(ltpFrame("99926000", 1700000000000, 2255075), make([]byte, 72)...)

	tick, err := ParseLTP(b)
	require.NoError(t, err)
	assert.Equal(t, "99926000", tick.Token)
	assert.Equal(t, 22550.75, tick.Price)
}

func TestParseLTPShortFrame(t *testing.T) {
	_, err := ParseLTP(make([]byte, 50))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestParseLTPEmptyToken(t *testing.T) {
	_, err := ParseLTP(ltpFrame("", 1700000000000, 100))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without token")
}
