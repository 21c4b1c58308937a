package watch

import "sync"

// Feed reparte snapshots de colección completa a cualquier número de
// suscriptores. Cada emisión reemplaza por completo a la anterior: nunca se
// entregan diffs. Un consumidor lento recibe el snapshot más reciente
// (conflación), no una cola de versiones intermedias.
type Feed[T any] struct {
	mu     sync.Mutex
	subs   map[int]*Subscription[T]
	nextID int
	last   []T
	seeded bool
	closed bool
}

// NewFeed construye un feed sin snapshot inicial.
func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[int]*Subscription[T])}
}

// Publish registra el snapshot como estado autoritativo y lo entrega a todos
// los suscriptores activos. El orden de items es el que produjo el backend y
// se preserva tal cual.
func (f *Feed[T]) Publish(items []T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.last = items
	f.seeded = true
	for _, s := range f.subs {
		s.push(items)
	}
}

// Subscribe crea una suscripción. Si el feed ya emitió algún snapshot, el
// suscriptor lo recibe de inmediato como estado actual.
func (f *Feed[T]) Subscribe() *Subscription[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	s := &Subscription[T]{
		ch:     make(chan []T, 1),
		detach: func() { f.remove(id) },
	}
	if f.closed {
		s.once.Do(func() { close(s.ch) })
		return s
	}
	f.subs[id] = s
	if f.seeded {
		s.push(f.last)
	}
	return s
}

// Close cierra el feed y todas las suscripciones activas. Publicaciones
// posteriores se descartan.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id, s := range f.subs {
		delete(f.subs, id)
		s.once.Do(func() { close(s.ch) })
	}
}

func (f *Feed[T]) remove(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, id)
}

// Subscription entrega una secuencia perezosa e ilimitada de snapshots.
type Subscription[T any] struct {
	ch     chan []T
	once   sync.Once
	detach func()
}

// Snapshots canal por el que llegan los snapshots. Se cierra al cancelar la
// suscripción o al cerrar el feed.
func (s *Subscription[T]) Snapshots() <-chan []T {
	return s.ch
}

// Unsubscribe desacopla la suscripción: no llegan más emisiones y el canal
// se cierra. Llamarla dos veces es un no-op.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.detach()
		close(s.ch)
	})
}

// push entrega con conflación: si el consumidor aún no leyó el snapshot
// anterior, se reemplaza por el nuevo.
func (s *Subscription[T]) push(items []T) {
	for {
		select {
		case s.ch <- items:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}
