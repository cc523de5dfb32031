package strategy

import (
	"tick_bot/internal/models"
)

// Strategy — чистая функция от закрытой истории. Состояние между вызовами
// не хранится: всё пересчитывается из history.
type Strategy interface {
	Evaluate(history []models.Candle, params models.StrategyParams) (models.Signal, error)
	Name() string
}
