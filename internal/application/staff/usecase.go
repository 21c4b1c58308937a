package staff

import (
	"context"
	"net/mail"
	"time"

	"github.com/stockku/inventory-core/internal/domain"
	"github.com/stockku/inventory-core/internal/domain/entity"
	"github.com/stockku/inventory-core/internal/domain/repository"
	"github.com/stockku/inventory-core/pkg/logger"
)

// MinPasswordLen longitud mínima de password, validada antes de cualquier
// llamada de red.
const MinPasswordLen = 6

// AccountProvider puerto hacia el proveedor de autenticación para creación de
// cuentas fuera de banda. Isolated entrega un contexto de credencial aislado
// que no reemplaza ni perturba la sesión activa del llamador; el proveedor
// serializa los contextos si hay llamadas solapadas.
type AccountProvider interface {
	Isolated(ctx context.Context) (IsolatedContext, error)
}

// IsolatedContext contexto secundario de autenticación con alcance acotado.
// Close libera sus recursos y es idempotente.
type IsolatedContext interface {
	CreateAccount(ctx context.Context, email, password string) (userID string, err error)
	Close(ctx context.Context) error
}

// ProvisioningUseCase registra cuentas de staff bajo un contexto de sesión
// secundario aislado: el admin sigue con su propia sesión al terminar,
// tanto en éxito como en fallo.
type ProvisioningUseCase struct {
	provider AccountProvider
	users    repository.UserRepository
	log      *logger.Logger
}

// NewProvisioningUseCase construye el caso de uso.
func NewProvisioningUseCase(provider AccountProvider, users repository.UserRepository, log *logger.Logger) *ProvisioningUseCase {
	return &ProvisioningUseCase{provider: provider, users: users, log: log}
}

// CreateStaff crea la credencial en un contexto aislado y escribe el documento
// de perfil con role=staff bajo el identificador asignado. El contexto aislado
// se libera en todas las salidas. Con email ya registrado retorna
// ErrEmailAlreadyExists y no escribe ningún perfil.
func (uc *ProvisioningUseCase) CreateStaff(ctx context.Context, actor entity.Session, email, password, name string) error {
	if !actor.IsAuthenticated() || !actor.Role.CanProvisionStaff() {
		return domain.ErrPermissionDenied
	}
	if email == "" || password == "" || name == "" {
		return domain.ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.ErrInvalidEmail
	}
	if len(password) < MinPasswordLen {
		return domain.ErrWeakPassword
	}

	iso, err := uc.provider.Isolated(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := iso.Close(ctx); cerr != nil {
			uc.log.Warn().Err(cerr).Msg("liberar contexto de sesión aislado")
		}
	}()

	userID, err := iso.CreateAccount(ctx, email, password)
	if err != nil {
		return err
	}

	profile := &entity.User{
		ID:        userID,
		Email:     email,
		Name:      name,
		Role:      entity.RoleStaff,
		CreatedAt: time.Now(),
	}
	if err := uc.users.Create(ctx, profile); err != nil {
		return err
	}

	uc.log.Info().Str("email", email).Msg("cuenta de staff creada")
	return nil
}
