package auth

import (
	"context"
	"net/mail"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockku/inventory-core/internal/application/session"
	"github.com/stockku/inventory-core/internal/application/staff"
	"github.com/stockku/inventory-core/internal/domain"
	"github.com/stockku/inventory-core/internal/domain/entity"
	"github.com/stockku/inventory-core/internal/domain/repository"
	"github.com/stockku/inventory-core/pkg/jwt"
	"github.com/stockku/inventory-core/pkg/logger"
)

var (
	_ session.CredentialSource = (*Provider)(nil)
	_ staff.AccountProvider    = (*Provider)(nil)
)

// JWTConfig configuración para la emisión de tokens de sesión.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Provider proveedor de autenticación email+password sobre el almacén de
// credenciales: verifica con bcrypt, emite tokens JWT opacos para el caller y
// notifica cada transición de estado de credencial. También entrega contextos
// aislados para creación de cuentas fuera de banda, serializados entre sí.
type Provider struct {
	creds  repository.CredentialRepository
	jwtCfg JWTConfig
	log    *logger.Logger

	mu        sync.Mutex
	current   *session.Credential
	listeners map[int]func(*session.Credential)
	nextID    int

	// isoMu garantiza que un contexto aislado nunca se reutilice
	// concurrentemente: cada llamada obtiene el suyo, en serie.
	isoMu sync.Mutex
}

// NewProvider construye el proveedor.
func NewProvider(creds repository.CredentialRepository, jwtCfg JWTConfig, log *logger.Logger) *Provider {
	return &Provider{
		creds:     creds,
		jwtCfg:    jwtCfg,
		log:       log,
		listeners: make(map[int]func(*session.Credential)),
	}
}

// SignIn verifica email+password y publica la credencial resultante.
// Cada variante de fallo es un centinela distinto, nunca un mensaje crudo.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*session.Credential, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidEmail
	}

	stored, err := p.creds.GetByEmail(ctx, email)
	if err != nil {
		p.log.Error().Err(err).Msg("consultar credencial")
		return nil, domain.ErrAuthFailed
	}
	if stored == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrWrongPassword
	}

	token, err := jwt.Generate(p.jwtCfg.Secret, stored.ID, stored.Email, "", p.jwtCfg.Issuer, p.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, domain.ErrAuthFailed
	}

	cred := &session.Credential{UserID: stored.ID, Email: stored.Email, Token: token}
	p.setCurrent(cred)
	return cred, nil
}

// SignOut descarta la credencial vigente; los observadores reciben nil.
func (p *Provider) SignOut(ctx context.Context) error {
	p.setCurrent(nil)
	return nil
}

// OnChange registra un observador de transiciones de credencial y lo invoca de
// inmediato con el estado vigente. La cancelación devuelta es idempotente.
func (p *Provider) OnChange(fn func(*session.Credential)) (cancel func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	current := p.current
	p.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

// Current devuelve la credencial vigente, o nil sin sesión.
func (p *Provider) Current() *session.Credential {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Isolated adquiere un contexto de credencial aislado. Las cuentas creadas
// dentro no tocan la credencial vigente del proceso. Bloquea si otro contexto
// aislado sigue abierto.
func (p *Provider) Isolated(ctx context.Context) (staff.IsolatedContext, error) {
	p.isoMu.Lock()
	return &isolatedContext{provider: p}, nil
}

// isolatedContext sesión secundaria de alcance acotado. Close libera el
// cupo serializado; es idempotente.
type isolatedContext struct {
	provider *Provider
	once     sync.Once
}

// CreateAccount crea la credencial sin publicar ninguna transición de estado:
// la sesión del llamador no se entera.
func (c *isolatedContext) CreateAccount(ctx context.Context, email, password string) (string, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.ErrInvalidEmail
	}
	if len(password) < staff.MinPasswordLen {
		return "", domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.ErrProvisioningFailed
	}

	cred := &entity.Credential{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := c.provider.creds.Create(ctx, cred); err != nil {
		return "", err
	}
	return cred.ID, nil
}

// Close libera el contexto. Toda salida de CreateStaff pasa por aquí.
func (c *isolatedContext) Close(ctx context.Context) error {
	c.once.Do(func() { c.provider.isoMu.Unlock() })
	return nil
}

func (p *Provider) setCurrent(cred *session.Credential) {
	p.mu.Lock()
	p.current = cred
	fns := make([]func(*session.Credential), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(cred)
	}
}
