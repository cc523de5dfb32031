package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pquerna/otp/totp"

	"tick_bot/pkg/logger"
)

const loginPath = "/rest/auth/angelbroking/user/v1/loginByPassword"

// Login — пароль + одноразовый TOTP. Токены сессии кладём в клиент.
func (c *Client) Login(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Client.Login: %w", err)
		}
	}()

	code, err := totp.GenerateCode(c.cfg.SmartAPI.TOTPSecret, time.Now())
	if err != nil {
		return fmt.Errorf("totp: %w", err)
	}

	body := map[string]string{
		"clientcode": c.cfg.SmartAPI.ClientCode,
		"password":   c.cfg.SmartAPI.Password,
		"totp":       code,
	}

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
	if err := c.post(ctx, loginPath, body, &out); err != nil {
		return err
	}
	if !out.Status {
		return fmt.Errorf("smartapi error %s: %s", out.ErrCode, out.Message)
	}

	c.mu.Lock()
	c.session.JWT = out.Data.JWTToken
	c.session.Refresh = out.Data.RefreshToken
	c.session.Feed = out.Data.FeedToken
	c.mu.Unlock()

	logger.Info("smartapi: logged in as %s", c.cfg.SmartAPI.ClientCode)
	return nil
}
