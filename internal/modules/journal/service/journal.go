package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tick_bot/internal/models"
	"tick_bot/internal/modules/journal/service/pg/signals"
	"tick_bot/pkg/db"
)

// Journal — журнал сигналов в Postgres.
type Journal struct {
	db      *db.PgTxManager
	signals *signals.Signals
}

func NewJournal(manager *db.PgTxManager) *Journal {
	return &Journal{
		db:      manager,
		signals: signals.New(),
	}
}

func (j *Journal) EnsureSchema(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Journal.EnsureSchema: %w", err)
		}
	}()

	return j.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			return j.signals.EnsureSchema(ctxTx, tx)
		})
}

func (j *Journal) Insert(ctx context.Context, rec models.SignalRecord) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Journal.Insert: %w", err)
		}
	}()

	return j.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			return j.signals.Insert(ctxTx, tx, rec)
		})
}
