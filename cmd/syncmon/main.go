// syncmon: herramienta de operación. Aplica migraciones, engancha la escucha
// de cambios y vuelca al log cada snapshot de productos e historial hasta
// recibir SIGINT/SIGTERM. Útil para verificar el push del backend en vivo.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/stockku/inventory-core/internal/application/watch"
	"github.com/stockku/inventory-core/internal/infrastructure/postgres"
	"github.com/stockku/inventory-core/pkg/config"
	"github.com/stockku/inventory-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando monitor de sincronización")

	if err := postgres.Migrate(cfg.DB, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	historyRepo := postgres.NewStockHistoryRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	listener := postgres.NewChangeListener(pool, log)

	watcher := watch.NewWatcher(listener, productRepo, historyRepo, userRepo, log)
	go watcher.Run(ctx)

	products := watcher.Products()
	defer products.Unsubscribe()
	history := watcher.History()
	defer history.Unsubscribe()

	for {
		select {
		case snapshot, ok := <-products.Snapshots():
			if !ok {
				return
			}
			low := 0
			for _, p := range snapshot {
				if p.IsLowStock() {
					low++
				}
			}
			log.Info().Int("items", len(snapshot)).Int("low_stock", low).Msg("snapshot de productos")
		case snapshot, ok := <-history.Snapshots():
			if !ok {
				return
			}
			log.Info().Int("entries", len(snapshot)).Msg("snapshot de historial")
		case <-ctx.Done():
			log.Info().Msg("monitor detenido")
			return
		}
	}
}
