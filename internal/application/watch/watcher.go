package watch

import (
	"context"
	"sync"

	"github.com/stockku/inventory-core/internal/domain/entity"
	"github.com/stockku/inventory-core/pkg/logger"
)

// Canales de notificación, uno por colección espejada.
const (
	ChannelProducts = "stockku_products"
	ChannelHistory  = "stockku_history"
	ChannelUsers    = "stockku_users"
)

// Watcher mantiene espejos en vivo de las colecciones remotas (productos,
// historial, plantilla) y reparte cada cambio como snapshot completo a través
// de un Feed por colección. Un error de permisos o de transporte en un canal
// degrada ese feed a "sin más emisiones"; nunca tumba al consumidor.
type Watcher struct {
	notifier Notifier
	products ProductLister
	history  HistoryLister
	staff    StaffLister
	log      *logger.Logger

	productsFeed *Feed[*entity.Product]
	historyFeed  *Feed[*entity.StockHistoryEntry]
	staffFeed    *Feed[*entity.User]
}

// NewWatcher construye el watcher con sus fuentes de datos.
func NewWatcher(notifier Notifier, products ProductLister, history HistoryLister, staff StaffLister, log *logger.Logger) *Watcher {
	return &Watcher{
		notifier:     notifier,
		products:     products,
		history:      history,
		staff:        staff,
		log:          log,
		productsFeed: NewFeed[*entity.Product](),
		historyFeed:  NewFeed[*entity.StockHistoryEntry](),
		staffFeed:    NewFeed[*entity.User](),
	}
}

// Run escucha los tres canales hasta que ctx se cancela. Cada notificación
// relee la colección completa y la publica; el orden lo garantiza la consulta
// del backend (created_at DESC), no esta capa.
func (w *Watcher) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		w.listen(ctx, ChannelProducts, w.reloadProducts)
	}()
	go func() {
		defer wg.Done()
		w.listen(ctx, ChannelHistory, w.reloadHistory)
	}()
	go func() {
		defer wg.Done()
		w.listen(ctx, ChannelUsers, w.reloadStaff)
	}()
	wg.Wait()

	w.productsFeed.Close()
	w.historyFeed.Close()
	w.staffFeed.Close()
}

// Products abre una suscripción al espejo de productos.
func (w *Watcher) Products() *Subscription[*entity.Product] {
	return w.productsFeed.Subscribe()
}

// History abre una suscripción al espejo del historial de stock.
func (w *Watcher) History() *Subscription[*entity.StockHistoryEntry] {
	return w.historyFeed.Subscribe()
}

// Staff abre una suscripción al espejo de la plantilla.
func (w *Watcher) Staff() *Subscription[*entity.User] {
	return w.staffFeed.Subscribe()
}

func (w *Watcher) listen(ctx context.Context, channel string, reload func(context.Context)) {
	err := w.notifier.Listen(ctx, channel, func() { reload(ctx) })
	if err != nil && ctx.Err() == nil {
		// Esperado cuando el rol de la sesión cambia con una lista abierta:
		// se registra y el feed queda sin más emisiones.
		w.log.Warn().Err(err).Str("channel", channel).Msg("escucha de colección degradada")
	}
}

func (w *Watcher) reloadProducts(ctx context.Context) {
	list, err := w.products.List(ctx)
	if err != nil {
		w.log.Warn().Err(err).Str("channel", ChannelProducts).Msg("releer productos")
		return
	}
	w.productsFeed.Publish(list)
}

func (w *Watcher) reloadHistory(ctx context.Context) {
	list, err := w.history.List(ctx)
	if err != nil {
		w.log.Warn().Err(err).Str("channel", ChannelHistory).Msg("releer historial")
		return
	}
	w.historyFeed.Publish(list)
}

func (w *Watcher) reloadStaff(ctx context.Context) {
	list, err := w.staff.ListStaff(ctx)
	if err != nil {
		w.log.Warn().Err(err).Str("channel", ChannelUsers).Msg("releer plantilla")
		return
	}
	w.staffFeed.Publish(list)
}
