package service

import (
	"github.com/gorilla/websocket"
)

const (
	actionSubscribe = 1
	modeLTP         = 1
)

type subscribeRequest struct {
	CorrelationID string          `json:"correlationID,omitempty"`
	Action        int             `json:"action"`
	Params        subscribeParams `json:"params"`
}

type subscribeParams struct {
	Mode      int         `json:"mode"`
	TokenList []tokenList `json:"tokenList"`
}

type tokenList struct {
	ExchangeType int      `json:"exchangeType"`
	Tokens       []string `json:"tokens"`
}

func (c *Client) writeSubscribe(conn *websocket.Conn, exchangeType int, tokens []string) error {
	req := subscribeRequest{
		Action: actionSubscribe,
		Params: subscribeParams{
			Mode: modeLTP,
			TokenList: []tokenList{
				{ExchangeType: exchangeType, Tokens: tokens},
			},
		},
	}
	return c.writeJSON(conn, req)
}
