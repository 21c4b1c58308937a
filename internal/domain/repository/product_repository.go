package repository

import (
	"context"

	"github.com/stockku/inventory-core/internal/domain/entity"
)

// ProductRepository puerto de persistencia de productos.
// Las implementaciones devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Update actualiza nombre, SKU e imagen; no toca el stock.
	Update(ctx context.Context, p *entity.Product) error
	// UpdateStock actualiza solo el campo stock (mutación parcial).
	UpdateStock(ctx context.Context, id string, stock int) error
	Delete(ctx context.Context, id string) error
	// List devuelve la colección completa ordenada por creación descendente.
	List(ctx context.Context) ([]*entity.Product, error)
	// SumStock devuelve el total de unidades en bodega.
	SumStock(ctx context.Context) (int, error)
}
