package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockku/inventory-core/internal/domain"
	"github.com/stockku/inventory-core/internal/domain/entity"
	"github.com/stockku/inventory-core/internal/domain/repository"
)

// StockUseCase aplica cambios de cantidad de stock sobre un producto y anexa
// el registro de auditoría correspondiente. Las dos escrituras van en una
// sola transacción: en éxito existen ambas; en fallo el caller recibe el
// error y puede reintentar sin dejar stock actualizado sin auditar.
//
// No dispara ninguna actualización directa de UI: los suscriptores del espejo
// de productos observan el cambio de forma asíncrona por su propio push.
type StockUseCase struct {
	txRunner TxRunner
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner) *StockUseCase {
	return &StockUseCase{txRunner: txRunner}
}

// StockChangeInput entrada para ApplyStockChange. Note es opcional.
type StockChangeInput struct {
	ProductID string
	NewStock  int
	Actor     entity.Session
	Note      string
}

// ApplyStockChange valida y aplica el cambio. Con NewStock negativo retorna
// ErrInvalidQuantity sin realizar ninguna escritura. Además del registro del
// movimiento, anexa en la misma transacción una entrada total_snapshot con el
// total de bodega resultante, que alimenta la serie de estadísticas.
func (uc *StockUseCase) ApplyStockChange(ctx context.Context, in StockChangeInput) error {
	if in.ProductID == "" {
		return domain.ErrInvalidInput
	}
	if in.NewStock < 0 {
		return domain.ErrInvalidQuantity
	}
	if !in.Actor.IsAuthenticated() || !in.Actor.Role.CanAdjustStock() {
		return domain.ErrPermissionDenied
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		history repository.StockHistoryRepository,
	) error {
		product, err := products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		if err := products.UpdateStock(ctx, product.ID, in.NewStock); err != nil {
			return err
		}

		entry := &entity.StockHistoryEntry{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			ProductName: product.Name,
			SKU:         product.SKU,
			Amount:      abs(in.NewStock - product.Stock),
			Type:        changeType(product.Stock, in.NewStock),
			UserEmail:   in.Actor.Email,
			Note:        in.Note,
			CreatedAt:   now,
		}
		if err := history.Append(ctx, entry); err != nil {
			return err
		}

		total, err := products.SumStock(ctx)
		if err != nil {
			return err
		}
		snapshot := &entity.StockHistoryEntry{
			ID:         uuid.New().String(),
			Type:       entity.HistoryTypeTotalSnapshot,
			UserEmail:  in.Actor.Email,
			TotalStock: &total,
			CreatedAt:  now,
		}
		return history.Append(ctx, snapshot)
	})
}

func changeType(oldStock, newStock int) string {
	switch {
	case newStock > oldStock:
		return entity.HistoryTypeIn
	case newStock < oldStock:
		return entity.HistoryTypeOut
	default:
		return entity.HistoryTypeUpdate
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
