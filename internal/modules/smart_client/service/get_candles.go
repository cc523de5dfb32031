package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"tick_bot/internal/models"
)

const candlesPath = "/rest/secure/angelbroking/historical/v1/getCandleData"

// GetCandles — закрытые свечи за [from, to] по биржевым часам.
func (c *Client) GetCandles(ctx context.Context, exchange, token string, tf models.Timeframe, from, to time.Time) (out []models.Candle, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Client.GetCandles %s %s: %w", token, tf, err)
		}
	}()

	loc := c.cfg.Location()
	body := map[string]string{
		"exchange":    exchange,
		"symboltoken": token,
		"interval":    tf.APIName(),
		"fromdate":    from.In(loc).Format("2006-01-02 15:04"),
		"todate":      to.In(loc).Format("2006-01-02 15:04"),
	}

	var resp struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		ErrCode string          `json:"errorcode"`
		Data    [][]interface{} `json:"data"`
	}
	if err := c.post(ctx, candlesPath, body, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, fmt.Errorf("smartapi error %s: %s", resp.ErrCode, resp.Message)
	}

	candles := make([]models.Candle, 0, len(resp.Data))
	for _, row := range resp.Data {
		// [ts, o, h, l, c, volume]
		if len(row) < 5 {
			continue
		}

		raw, ok := row[0].(string)
		if !ok {
			continue
		}
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			continue
		}

		o, ok1 := asFloat(row[1])
		h, ok2 := asFloat(row[2])
		l, ok3 := asFloat(row[3])
		cl, ok4 := asFloat(row[4])
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}

		candles = append(candles, models.Candle{
			Start: start.In(loc),
			Open:  o,
			High:  h,
			Low:   l,
			Close: cl,
		})
	}
	return candles, nil
}

func asFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}
