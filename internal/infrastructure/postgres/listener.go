package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stockku/inventory-core/internal/application/watch"
	"github.com/stockku/inventory-core/pkg/logger"
)

var _ watch.Notifier = (*ChangeListener)(nil)

// ChangeListener escucha lo que publican los triggers pg_notify del esquema.
// Cada canal usa una conexión dedicada del pool: LISTEN queda atado a la
// sesión y el pool no debe reciclarla mientras la escucha siga viva.
type ChangeListener struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewChangeListener construye el listener sobre el pool.
func NewChangeListener(pool *pgxpool.Pool, log *logger.Logger) *ChangeListener {
	return &ChangeListener{pool: pool, log: log}
}

// Listen registra LISTEN sobre channel y ejecuta onChange en cada
// notificación, más una vez al arrancar para sembrar el primer snapshot.
// Bloquea hasta que ctx se cancela (retorna nil) o la conexión falla
// (retorna el error; el caller decide degradar).
func (l *ChangeListener) Listen(ctx context.Context, channel string, onChange func()) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("adquirir conexión de escucha: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, fmt.Sprintf("LISTEN %q", channel)); err != nil {
		return fmt.Errorf("listen %s: %w", channel, err)
	}

	// Snapshot inicial antes de la primera notificación.
	onChange()

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("esperar notificación en %s: %w", channel, err)
		}
		l.log.Debug().Str("channel", notification.Channel).Str("op", notification.Payload).Msg("cambio remoto")
		onChange()
	}
}
