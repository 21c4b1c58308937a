package watch

import (
	"context"

	"github.com/stockku/inventory-core/internal/domain/entity"
)

// Notifier puerto hacia el mecanismo de push del backend. Listen registra el
// interés por un canal y ejecuta onChange en cada cambio remoto (incluida una
// invocación inicial para sembrar el primer snapshot). Bloquea hasta que el
// contexto se cancela o la escucha degrada por error.
type Notifier interface {
	Listen(ctx context.Context, channel string, onChange func()) error
}

// Lectores de colección completa que alimentan cada feed.
type (
	ProductLister interface {
		List(ctx context.Context) ([]*entity.Product, error)
	}
	HistoryLister interface {
		List(ctx context.Context) ([]*entity.StockHistoryEntry, error)
	}
	StaffLister interface {
		ListStaff(ctx context.Context) ([]*entity.User, error)
	}
)
