package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"tick_bot/internal/models"
	"tick_bot/pkg/logger"
)

const orderPath = "/rest/secure/angelbroking/order/v1/placeOrder"

// PlaceOrder — рыночный интрадей-ордер по сигналу. Возвращает orderid.
func (c *Client) PlaceOrder(ctx context.Context, reg models.Registration, sig models.Signal) (id string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Client.PlaceOrder %s: %w", reg.Symbol, err)
		}
	}()

	var side string
	switch sig {
	case models.SignalBuy:
		side = "BUY"
	case models.SignalSell:
		side = "SELL"
	default:
		return "", fmt.Errorf("no order side for signal %q", sig)
	}

	qty := c.cfg.OrderQty
	if qty <= 0 {
		qty = 1
	}

	body := map[string]string{
		"variety":         "NORMAL",
		"tradingsymbol":   reg.Symbol,
		"symboltoken":     reg.Token,
		"transactiontype": side,
		"exchange":        reg.Exchange,
		"ordertype":       "MARKET",
		"producttype":     "INTRADAY",
		"duration":        "DAY",
		"quantity":        strconv.Itoa(qty),
		"ordertag":        uuid.NewString(),
	}

	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		ErrCode string `json:"errorcode"`
		Data    struct {
			Script  string `json:"script"`
			OrderID string `json:"orderid"`
		} `json:"data"`
	}
	if err := c.post(ctx, orderPath, body, &resp); err != nil {
		return "", err
	}
	if !resp.Status {
		return "", fmt.Errorf("smartapi error %s: %s", resp.ErrCode, resp.Message)
	}
	if resp.Data.OrderID == "" {
		return "", fmt.Errorf("empty orderid in response")
	}

	logger.Info("smartapi: order %s %s qty=%d id=%s", side, reg.Symbol, qty, resp.Data.OrderID)
	return resp.Data.OrderID, nil
}
