package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/stockku/inventory-core/internal/domain"
	"github.com/stockku/inventory-core/internal/domain/entity"
	"github.com/stockku/inventory-core/internal/domain/repository"
)

// Puntos de serie y cuota por producto para el tablero de estadísticas.
const (
	seriesPoints = 6
	topProducts  = 5
)

// StockPoint total de bodega en un instante (una entrada total_snapshot).
type StockPoint struct {
	At         time.Time
	TotalStock int
}

// ProductShare participación de un producto en el stock actual.
type ProductShare struct {
	Name  string
	Stock int
}

// Dashboard agregados de una sola lectura: serie reciente de totales de
// bodega y los productos con más stock.
type Dashboard struct {
	Series []StockPoint
	Top    []ProductShare
}

// StatsUseCase consulta puntual (no suscrita) de estadísticas agregadas.
type StatsUseCase struct {
	history  repository.StockHistoryRepository
	products repository.ProductRepository
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(history repository.StockHistoryRepository, products repository.ProductRepository) *StatsUseCase {
	return &StatsUseCase{history: history, products: products}
}

// Fetch arma el tablero. Suspende hasta completar las dos lecturas; reservado
// al rol admin. La serie va en orden cronológico ascendente para graficar.
func (uc *StatsUseCase) Fetch(ctx context.Context, actor entity.Session) (*Dashboard, error) {
	if !actor.IsAuthenticated() || !actor.Role.CanViewStats() {
		return nil, domain.ErrPermissionDenied
	}

	snapshots, err := uc.history.LatestSnapshots(ctx, seriesPoints)
	if err != nil {
		return nil, err
	}
	// LatestSnapshots entrega más reciente primero; se invierte para la serie.
	series := make([]StockPoint, 0, len(snapshots))
	for i := len(snapshots) - 1; i >= 0; i-- {
		e := snapshots[i]
		total := 0
		if e.TotalStock != nil {
			total = *e.TotalStock
		}
		series = append(series, StockPoint{At: e.CreatedAt, TotalStock: total})
	}

	list, err := uc.products.List(ctx)
	if err != nil {
		return nil, err
	}
	sorted := make([]*entity.Product, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Stock > sorted[j].Stock })
	if len(sorted) > topProducts {
		sorted = sorted[:topProducts]
	}
	top := make([]ProductShare, 0, len(sorted))
	for _, p := range sorted {
		top = append(top, ProductShare{Name: p.Name, Stock: p.Stock})
	}

	return &Dashboard{Series: series, Top: top}, nil
}
