package repository

import (
	"context"

	"github.com/stockku/inventory-core/internal/domain/entity"
)

// StockHistoryRepository puerto del historial de stock (solo anexar).
type StockHistoryRepository interface {
	Append(ctx context.Context, e *entity.StockHistoryEntry) error
	// List devuelve el historial completo ordenado por creación descendente.
	List(ctx context.Context) ([]*entity.StockHistoryEntry, error)
	// LatestSnapshots devuelve las últimas n entradas total_snapshot,
	// más reciente primero.
	LatestSnapshots(ctx context.Context, n int) ([]*entity.StockHistoryEntry, error)
}
