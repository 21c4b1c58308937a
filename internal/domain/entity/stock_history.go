package entity

import "time"

// Tipos de entrada en el historial de stock.
const (
	HistoryTypeIn            = "in"             // el stock subió
	HistoryTypeOut           = "out"            // el stock bajó
	HistoryTypeUpdate        = "update"         // corrección sin cambio neto
	HistoryTypeTotalSnapshot = "total_snapshot" // total de bodega tras una mutación
)

// StockHistoryEntry registro inmutable de un evento que afecta stock.
// Solo se crea: el cliente nunca actualiza ni borra entradas.
// ProductID es una referencia blanda: borrar el producto no la elimina.
type StockHistoryEntry struct {
	ID          string
	ProductID   string // vacío en entradas total_snapshot
	ProductName string
	SKU         string
	Amount      int    // magnitud del cambio, siempre >= 0
	Type        string // in, out, update, total_snapshot
	UserEmail   string
	Note        string
	TotalStock  *int // solo en entradas total_snapshot
	CreatedAt   time.Time
}
