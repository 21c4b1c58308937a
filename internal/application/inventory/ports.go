package inventory

import (
	"context"

	"github.com/stockku/inventory-core/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción del backend con repositorios
// atados a ella. Si fn retorna error se revierte todo: o existen el producto
// actualizado y sus entradas de historial, o no existe ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		history repository.StockHistoryRepository,
	) error) error
}
