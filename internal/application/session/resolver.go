package session

import (
	"context"
	"net/mail"
	"sync"

	"github.com/stockku/inventory-core/internal/domain"
	"github.com/stockku/inventory-core/internal/domain/entity"
	"github.com/stockku/inventory-core/internal/domain/repository"
	"github.com/stockku/inventory-core/pkg/logger"
)

// Resolver resuelve una credencial cruda en una Session (userId, rol) y la
// mantiene vigente durante la vida del proceso. Es el único escritor de la
// sesión; cualquier goroutine puede leerla vía Current u OnChange.
//
// En cada transición a "con sesión" el resolver busca el documento de perfil
// antes de declarar la sesión autenticada: ninguna pantalla debe renderizar
// contenido restringido por rol con un rol ausente o de una sesión anterior.
type Resolver struct {
	source CredentialSource
	users  repository.UserRepository
	log    *logger.Logger

	mu      sync.RWMutex
	session entity.Session

	subMu        sync.Mutex
	subs         map[int]func(entity.Session)
	nextSub      int
	cancelSource func()
}

// NewResolver construye el resolver y se engancha a las transiciones de
// credencial del proveedor. La sesión arranca en loading hasta la primera
// notificación.
func NewResolver(source CredentialSource, users repository.UserRepository, log *logger.Logger) *Resolver {
	r := &Resolver{
		source:  source,
		users:   users,
		log:     log,
		session: entity.Session{Status: entity.StatusLoading},
		subs:    make(map[int]func(entity.Session)),
	}
	r.cancelSource = source.OnChange(r.handleCredential)
	return r
}

// Login valida y delega en el proveedor. El cambio de sesión llega por la
// notificación de credencial, no por el retorno de esta llamada.
func (r *Resolver) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return domain.ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.ErrInvalidEmail
	}
	if _, err := r.source.SignIn(ctx, email, password); err != nil {
		return err
	}
	return nil
}

// Logout cierra la sesión. Desde la perspectiva del resolver el reset es
// síncrono: los observadores reciben status anonymous antes de retornar.
func (r *Resolver) Logout(ctx context.Context) error {
	return r.source.SignOut(ctx)
}

// Current devuelve la sesión vigente.
func (r *Resolver) Current() entity.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.session
}

// OnChange registra un observador que recibe cada sesión nueva. La función
// devuelta lo desregistra; llamarla más de una vez es un no-op.
func (r *Resolver) OnChange(fn func(entity.Session)) (cancel func()) {
	r.subMu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.subMu.Lock()
			delete(r.subs, id)
			r.subMu.Unlock()
		})
	}
}

// Close desengancha el resolver del proveedor de credenciales.
func (r *Resolver) Close() {
	if r.cancelSource != nil {
		r.cancelSource()
	}
}

// handleCredential procesa una transición de credencial. Con credencial nil la
// sesión pasa a anonymous; con credencial, queda en loading mientras se busca
// el perfil y solo entonces se declara autenticada. Un perfil inexistente deja
// el rol sin resolver: la credencial es válida pero sin privilegios.
func (r *Resolver) handleCredential(cred *Credential) {
	if cred == nil {
		r.set(entity.Session{Status: entity.StatusAnonymous})
		return
	}

	loading := entity.Session{
		UserID: cred.UserID,
		Email:  cred.Email,
		Role:   entity.RoleUnresolved,
		Status: entity.StatusLoading,
	}
	r.set(loading)

	role := entity.RoleUnresolved
	profile, err := r.users.GetByID(context.Background(), cred.UserID)
	switch {
	case err != nil:
		r.log.Warn().Err(err).Str("user_id", cred.UserID).Msg("buscar perfil de usuario")
	case profile != nil:
		role = profile.Role
	}

	r.set(entity.Session{
		UserID: cred.UserID,
		Email:  cred.Email,
		Role:   role,
		Status: entity.StatusAuthenticated,
	})
}

func (r *Resolver) set(s entity.Session) {
	r.mu.Lock()
	r.session = s
	r.mu.Unlock()

	r.subMu.Lock()
	fns := make([]func(entity.Session), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subMu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}
