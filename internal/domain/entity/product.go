package entity

import "time"

// LowStockThreshold por debajo de este valor un producto se considera
// "stock bajo" en cualquier listado derivado.
const LowStockThreshold = 10

// Product representa un producto del inventario. La copia canónica vive en el
// almacén remoto; cada cliente suscrito mantiene un espejo de solo lectura
// que es autoritativo hasta el siguiente snapshot.
type Product struct {
	ID        string
	Name      string
	SKU       string // único por convención, no se valida en escritura
	Stock     int    // siempre >= 0
	ImageURL  string // vacío si el producto no tiene imagen
	CreatedAt time.Time
}

// IsLowStock clasifica el producto según el umbral de stock bajo.
func (p Product) IsLowStock() bool { return p.Stock < LowStockThreshold }
