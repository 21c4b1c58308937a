package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stockku/inventory-core/internal/domain/entity"
	"github.com/stockku/inventory-core/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)

// StockHistoryRepo implementación del historial de stock (solo anexar).
type StockHistoryRepo struct {
	db querier
}

// NewStockHistoryRepository construye el adaptador; db puede ser el pool o una tx.
func NewStockHistoryRepository(db querier) *StockHistoryRepo {
	return &StockHistoryRepo{db: db}
}

// Append anexa una entrada. No existe Update ni Delete: el historial es inmutable.
func (r *StockHistoryRepo) Append(ctx context.Context, e *entity.StockHistoryEntry) error {
	// product_id vacío (entradas total_snapshot) se guarda como NULL.
	var productID any
	if e.ProductID != "" {
		productID = e.ProductID
	}
	query := `
		INSERT INTO stock_history (id, product_id, product_name, sku, amount, type, user_email, note, total_stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)`
	_, err := r.db.Exec(ctx, query,
		e.ID, productID, e.ProductName, e.SKU, e.Amount, e.Type, e.UserEmail, e.Note, e.TotalStock, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append stock history: %w", err)
	}
	return nil
}

// List devuelve el historial completo, creación descendente.
func (r *StockHistoryRepo) List(ctx context.Context) ([]*entity.StockHistoryEntry, error) {
	query := `
		SELECT id, COALESCE(product_id::text, ''), product_name, sku, amount, type, user_email, COALESCE(note, ''), total_stock, created_at
		FROM stock_history ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stock history: %w", err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

// LatestSnapshots últimas n entradas total_snapshot, más reciente primero.
func (r *StockHistoryRepo) LatestSnapshots(ctx context.Context, n int) ([]*entity.StockHistoryEntry, error) {
	query := `
		SELECT id, COALESCE(product_id::text, ''), product_name, sku, amount, type, user_email, COALESCE(note, ''), total_stock, created_at
		FROM stock_history WHERE type = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, entity.HistoryTypeTotalSnapshot, n)
	if err != nil {
		return nil, fmt.Errorf("latest snapshots: %w", err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

func scanHistory(rows pgx.Rows) ([]*entity.StockHistoryEntry, error) {
	var list []*entity.StockHistoryEntry
	for rows.Next() {
		var e entity.StockHistoryEntry
		if err := rows.Scan(
			&e.ID, &e.ProductID, &e.ProductName, &e.SKU, &e.Amount, &e.Type,
			&e.UserEmail, &e.Note, &e.TotalStock, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock history: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
