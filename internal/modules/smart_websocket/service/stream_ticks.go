package service

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"tick_bot/internal/metrics"
)

// Run держит соединение со smart-stream до отмены ctx: реконнект,
// переподписка, keepalive. Тики уходят в c.ticks.
func (c *Client) Run(ctx context.Context) {
	defer close(c.ticks)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		sess := c.session.Session()
		if sess.JWT == "" || sess.Feed == "" {
			// логин ещё не прошёл
			time.Sleep(time.Second)
			continue
		}

		headers := http.Header{}
		headers.Set("Authorization", "Bearer "+sess.JWT)
		headers.Set("x-api-key", c.cfg.SmartAPI.APIKey)
		headers.Set("x-client-code", c.cfg.SmartAPI.ClientCode)
		headers.Set("x-feed-token", sess.Feed)

		log.Printf("[WS] connect %s", c.cfg.SmartAPI.WSURL)
		conn, _, err := c.wsDialer.Dial(c.cfg.SmartAPI.WSURL, headers)
		if err != nil {
			log.Printf("[WS] dial error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		c.setConn(conn)
		c.state.SetWSConnected(true)

		subs := c.snapshotSubs()
		subErr := false
		for ex, tokens := range subs {
			if len(tokens) == 0 {
				continue
			}
			if err := c.writeSubscribe(conn, ex, tokens); err != nil {
				log.Printf("[WS] subscribe error: %v", err)
				subErr = true
				break
			}
		}
		if subErr {
			_ = conn.Close()
			c.setConn(nil)
			c.state.SetWSConnected(false)
			continue
		}

		// keepalive: smart-stream рвёт соединение без ping
		stopPing := make(chan struct{})
		go func() {
			t := time.NewTicker(c.pingInterval())
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-stopPing:
					return
				case <-t.C:
					_ = c.writeText(conn, "ping")
				}
			}
		}()

		c.readLoop(ctx, conn)

		close(stopPing)
		_ = conn.Close()
		c.setConn(nil)
		c.state.SetWSConnected(false)

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(time.Second)
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[WS] read error: %v", err)
			return
		}
		if msgType != websocket.BinaryMessage {
			// текстовые pong и служебные ответы
			continue
		}

		tick, err := ParseLTP(msg)
		if err != nil {
			metrics.BadFrames.Inc()
			continue
		}
		c.state.TouchTick(tick.Ts)

		select {
		case c.ticks <- tick:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) pingInterval() time.Duration {
	if c.cfg.PingInterval > 0 {
		return c.cfg.PingInterval
	}
	return 25 * time.Second
}
