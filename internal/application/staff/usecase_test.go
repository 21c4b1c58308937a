package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockku/inventory-core/internal/domain"
	"github.com/stockku/inventory-core/internal/domain/entity"
	"github.com/stockku/inventory-core/pkg/logger"
)

type fakeProvider struct {
	isolatedErr error
	createErr   error
	createdID   string

	isolatedCalls int
	created       []string
	closed        int
}

func (f *fakeProvider) Isolated(context.Context) (IsolatedContext, error) {
	f.isolatedCalls++
	if f.isolatedErr != nil {
		return nil, f.isolatedErr
	}
	return &fakeIsolated{provider: f}, nil
}

type fakeIsolated struct{ provider *fakeProvider }

func (f *fakeIsolated) CreateAccount(_ context.Context, email, _ string) (string, error) {
	if f.provider.createErr != nil {
		return "", f.provider.createErr
	}
	f.provider.created = append(f.provider.created, email)
	return f.provider.createdID, nil
}

func (f *fakeIsolated) Close(context.Context) error {
	f.provider.closed++
	return nil
}

type fakeUsers struct {
	profiles []*entity.User
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.profiles = append(f.profiles, u)
	return nil
}

func (f *fakeUsers) GetByID(context.Context, string) (*entity.User, error) { return nil, nil }
func (f *fakeUsers) ListStaff(context.Context) ([]*entity.User, error)     { return nil, nil }

func adminActor() entity.Session {
	return entity.Session{UserID: "u1", Email: "admin@toko.com", Role: entity.RoleAdmin, Status: entity.StatusAuthenticated}
}

func TestCreateStaff_EscribePerfilConRolStaff(t *testing.T) {
	provider := &fakeProvider{createdID: "new-uid"}
	users := &fakeUsers{}
	uc := NewProvisioningUseCase(provider, users, logger.Nop())

	err := uc.CreateStaff(context.Background(), adminActor(), "nuevo@toko.com", "secreto1", "Nuevo Staff")
	require.NoError(t, err)

	require.Len(t, users.profiles, 1)
	p := users.profiles[0]
	assert.Equal(t, "new-uid", p.ID, "el perfil usa el identificador asignado por el proveedor")
	assert.Equal(t, entity.RoleStaff, p.Role)
	assert.Equal(t, "nuevo@toko.com", p.Email)
	assert.Equal(t, 1, provider.closed, "el contexto aislado se libera")
}

// El rol staff no puede aprovisionar cuentas.
func TestCreateStaff_RequiereAdmin(t *testing.T) {
	provider := &fakeProvider{createdID: "x"}
	uc := NewProvisioningUseCase(provider, &fakeUsers{}, logger.Nop())

	actor := entity.Session{UserID: "u2", Role: entity.RoleStaff, Status: entity.StatusAuthenticated}
	err := uc.CreateStaff(context.Background(), actor, "nuevo@toko.com", "secreto1", "Nuevo")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Zero(t, provider.isolatedCalls, "ninguna llamada al proveedor")
}

// Las validaciones locales cortan antes de cualquier llamada de red.
func TestCreateStaff_ValidacionesLocales(t *testing.T) {
	provider := &fakeProvider{createdID: "x"}
	uc := NewProvisioningUseCase(provider, &fakeUsers{}, logger.Nop())
	ctx := context.Background()

	assert.ErrorIs(t, uc.CreateStaff(ctx, adminActor(), "", "secreto1", "Nuevo"), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.CreateStaff(ctx, adminActor(), "no-es-email", "secreto1", "Nuevo"), domain.ErrInvalidEmail)
	assert.ErrorIs(t, uc.CreateStaff(ctx, adminActor(), "nuevo@toko.com", "corta", "Nuevo"), domain.ErrWeakPassword)
	assert.Zero(t, provider.isolatedCalls)
}

// Email duplicado: el error tipado llega al caller, no se escribe perfil y
// el contexto aislado queda liberado igual.
func TestCreateStaff_EmailDuplicado(t *testing.T) {
	provider := &fakeProvider{createErr: domain.ErrEmailAlreadyExists}
	users := &fakeUsers{}
	uc := NewProvisioningUseCase(provider, users, logger.Nop())

	err := uc.CreateStaff(context.Background(), adminActor(), "ya@toko.com", "secreto1", "Repetido")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Empty(t, users.profiles)
	assert.Equal(t, 1, provider.closed, "liberado también en la salida de error")
}
