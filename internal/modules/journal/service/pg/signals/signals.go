package signals

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"

	"tick_bot/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS signals (
    id         BIGSERIAL PRIMARY KEY,
    token      TEXT NOT NULL,
    symbol     TEXT NOT NULL,
    timeframe  TEXT NOT NULL,
    strategy   TEXT NOT NULL,
    signal     TEXT NOT NULL,
    price      DOUBLE PRECISION NOT NULL,
    order_id   TEXT NOT NULL DEFAULT '',
    params     JSONB NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL
)`

const insertSQL = `
INSERT INTO signals (token, symbol, timeframe, strategy, signal, price, order_id, params, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Signals implement db store
type Signals struct{}

// New instance
func New() *Signals {
	return &Signals{}
}

func (s *Signals) EnsureSchema(ctx context.Context, tx pgx.Tx) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Signals.EnsureSchema: %w", err)
		}
	}()

	_, err = tx.Exec(ctx, schemaSQL)
	return
}

func (s *Signals) Insert(ctx context.Context, tx pgx.Tx, rec models.SignalRecord) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Signals.Insert: %w", err)
		}
	}()

	params := []byte("{}")
	if rec.Params != nil {
		params, err = sonic.Marshal(rec.Params)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, insertSQL,
		rec.Token,
		rec.Symbol,
		string(rec.TF),
		rec.Strategy,
		string(rec.Signal),
		rec.Price,
		rec.OrderID,
		params,
		rec.At,
	)
	return
}
