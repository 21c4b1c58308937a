package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockku/inventory-core/internal/domain/entity"
	"github.com/stockku/inventory-core/pkg/logger"
)

// fakeNotifier escucha en memoria: canales en failOn degradan de inmediato;
// el resto siembra el primer snapshot y reacciona a cada poke hasta cancelar.
type fakeNotifier struct {
	failOn map[string]error
	pokes  map[string]chan struct{}
}

func (f *fakeNotifier) Listen(ctx context.Context, channel string, onChange func()) error {
	if err := f.failOn[channel]; err != nil {
		return err
	}
	onChange()
	poke := f.pokes[channel] // canal nil: bloquea hasta cancelar
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-poke:
			onChange()
		}
	}
}

type stubProducts struct{ list []*entity.Product }

func (s *stubProducts) List(context.Context) ([]*entity.Product, error) { return s.list, nil }

type stubHistory struct{ list []*entity.StockHistoryEntry }

func (s *stubHistory) List(context.Context) ([]*entity.StockHistoryEntry, error) {
	return s.list, nil
}

type stubStaff struct{}

func (s *stubStaff) ListStaff(context.Context) ([]*entity.User, error) { return nil, nil }

// flakyHistory falla la primera lectura y atiende las siguientes.
type flakyHistory struct {
	mu    sync.Mutex
	calls int
	list  []*entity.StockHistoryEntry
}

func (s *flakyHistory) List(context.Context) ([]*entity.StockHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls == 1 {
		return nil, errors.New("conexión perdida")
	}
	return s.list, nil
}

func recv[T any](t *testing.T, sub *Subscription[T]) []T {
	t.Helper()
	select {
	case snapshot := <-sub.Snapshots():
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timeout esperando snapshot")
		return nil
	}
}

// Un canal que degrada (p. ej. por permisos) enmudece su feed sin tumbar
// a los demás ni al consumidor.
func TestWatcher_CanalDegradadoNoTumbaLosDemas(t *testing.T) {
	notifier := &fakeNotifier{
		failOn: map[string]error{ChannelProducts: errors.New("permiso denegado")},
		pokes:  map[string]chan struct{}{},
	}
	historial := []*entity.StockHistoryEntry{{ID: "h1", Type: entity.HistoryTypeIn}}
	w := NewWatcher(notifier, &stubProducts{}, &stubHistory{list: historial}, &stubStaff{}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	products := w.Products()
	defer products.Unsubscribe()
	history := w.History()
	defer history.Unsubscribe()

	assert.Equal(t, historial, recv(t, history), "el feed sano sigue emitiendo")

	select {
	case snapshot := <-products.Snapshots():
		t.Fatalf("el feed degradado no debe emitir, llegó %v", snapshot)
	default:
	}

	cancel()
	<-done

	_, ok := <-products.Snapshots()
	assert.False(t, ok, "el feed degradado termina cerrado sin haber emitido")
}

// Un error de relectura no publica nada: el siguiente snapshot que llega
// al suscriptor es el de la relectura que sí funcionó.
func TestWatcher_ErrorDeRelecturaNoPublica(t *testing.T) {
	poke := make(chan struct{}, 1)
	poke <- struct{}{}
	notifier := &fakeNotifier{
		failOn: map[string]error{},
		pokes:  map[string]chan struct{}{ChannelHistory: poke},
	}
	historial := []*entity.StockHistoryEntry{{ID: "h1", Type: entity.HistoryTypeOut}}
	source := &flakyHistory{list: historial}
	w := NewWatcher(notifier, &stubProducts{}, source, &stubStaff{}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	history := w.History()
	defer history.Unsubscribe()

	got := recv(t, history)
	assert.Equal(t, historial, got, "la primera emisión es la de la relectura exitosa")
}

// Cancelar el contexto de Run cierra los tres feeds.
func TestWatcher_RunCierraLosFeedsAlCancelar(t *testing.T) {
	notifier := &fakeNotifier{failOn: map[string]error{}, pokes: map[string]chan struct{}{}}
	w := NewWatcher(notifier, &stubProducts{}, &stubHistory{}, &stubStaff{}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	products := w.Products()
	history := w.History()
	staff := w.Staff()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run no terminó tras cancelar")
	}

	for _, closed := range []func() bool{
		func() bool { _, ok := <-drain(products); return !ok },
		func() bool { _, ok := <-drain(history); return !ok },
		func() bool { _, ok := <-drain(staff); return !ok },
	} {
		require.True(t, closed())
	}
}

// drain descarta snapshots pendientes y devuelve el canal para observar el cierre.
func drain[T any](sub *Subscription[T]) <-chan []T {
	for {
		select {
		case _, ok := <-sub.Snapshots():
			if !ok {
				return sub.Snapshots()
			}
		default:
			return sub.Snapshots()
		}
	}
}
