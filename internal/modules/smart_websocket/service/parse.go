package service

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"tick_bot/internal/models"
)

// Бинарный LTP-кадр smart-stream, little-endian:
// [0] mode, [1] exchangeType, [2:27] token (до нуля), [27:35] sequence,
// [35:43] exchange timestamp ms, [43:51] LTP в пайсах.
const ltpFrameSize = 51

func ParseLTP(b []byte) (models.Tick, error) {
	if len(b) < ltpFrameSize {
		return models.Tick{}, fmt.Errorf("ltp frame too short: %d bytes", len(b))
	}

	token := string(bytes.TrimRight(b[2:27], "\x00"))
	if token == "" {
		return models.Tick{}, fmt.Errorf("ltp frame without token")
	}

	tsMs := int64(binary.LittleEndian.Uint64(b[35:43]))
	ltp := int64(binary.LittleEndian.Uint64(b[43:51]))

	return models.Tick{
		Token: token,
		Price: float64(ltp) / 100,
		Ts:    time.UnixMilli(tsMs),
	}, nil
}
