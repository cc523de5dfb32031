package service

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tick_bot/internal/models"
	"tick_bot/internal/modules/config"
	healthsvc "tick_bot/internal/modules/health/service"
)

// SessionProvider отдаёт актуальные токены SmartAPI.
type SessionProvider interface {
	Session() models.Session
}

// Client — стрим LTP-тиков со SmartAPI smart-stream.
type Client struct {
	cfg      *config.Config
	wsDialer *websocket.Dialer
	session  SessionProvider
	state    *healthsvc.State

	ticks chan models.Tick

	mu   sync.Mutex
	conn *websocket.Conn
	subs map[int][]string // exchangeType -> tokens

	writeMu sync.Mutex
}

func NewClient(cfg *config.Config, session SessionProvider, state *healthsvc.State) *Client {
	return &Client{
		cfg:      cfg,
		wsDialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		session:  session,
		state:    state,
		ticks:    make(chan models.Tick, 1024),
		subs:     make(map[int][]string),
	}
}

// Ticks — поток тиков. Закрывается при остановке Run.
func (c *Client) Ticks() <-chan models.Tick { return c.ticks }

// Subscribe добавляет токены в подписку. При живом соединении досылает
// запрос сразу, иначе токены уйдут при следующем коннекте.
func (c *Client) Subscribe(exchangeType int, tokens []string) error {
	c.mu.Lock()
	known := make(map[string]struct{}, len(c.subs[exchangeType]))
	for _, t := range c.subs[exchangeType] {
		known[t] = struct{}{}
	}
	added := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := known[t]; ok {
			continue
		}
		c.subs[exchangeType] = append(c.subs[exchangeType], t)
		added = append(added, t)
	}
	conn := c.conn
	c.mu.Unlock()

	if conn == nil || len(added) == 0 {
		return nil
	}
	return c.writeSubscribe(conn, exchangeType, added)
}

func (c *Client) snapshotSubs() map[int][]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[int][]string, len(c.subs))
	for ex, tokens := range c.subs {
		out[ex] = append([]string(nil), tokens...)
	}
	return out
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

func (c *Client) writeJSON(conn *websocket.Conn, v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(v)
}

func (c *Client) writeText(conn *websocket.Conn, msg string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, []byte(msg))
}
