package service

import (
	"context"
	"fmt"

	"tick_bot/pkg/logger"
)

const renewPath = "/rest/auth/angelbroking/jwt/v1/generateTokens"

// Renew обменивает refresh-токен на свежую тройку токенов.
func (c *Client) Renew(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Client.Renew: %w", err)
		}
	}()

	refresh := c.Session().Refresh
	if refresh == "" {
		return fmt.Errorf("no session to renew")
	}

	body := map[string]string{"refreshToken": refresh}

	var out struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		ErrCode string `json:"errorcode"`
		Data    struct {
			JWTToken     string `json:"jwtToken"`
			RefreshToken string `json:"refreshToken"`
			FeedToken    string `json:"feedToken"`
		} `json:"data"`
	}
	if err := c.post(ctx, renewPath, body, &out); err != nil {
		return err
	}
	if !out.Status {
		return fmt.Errorf("smartapi error %s: %s", out.ErrCode, out.Message)
	}

	c.mu.Lock()
	c.session.JWT = out.Data.JWTToken
	if out.Data.RefreshToken != "" {
		c.session.Refresh = out.Data.RefreshToken
	}
	if out.Data.FeedToken != "" {
		c.session.Feed = out.Data.FeedToken
	}
	c.mu.Unlock()

	logger.Info("smartapi: session renewed")
	return nil
}
