package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockku/inventory-core/internal/application/session"
	"github.com/stockku/inventory-core/internal/domain"
	"github.com/stockku/inventory-core/internal/domain/entity"
	"github.com/stockku/inventory-core/pkg/logger"
)

type fakeCreds struct {
	byEmail map[string]*entity.Credential
}

func newFakeCreds() *fakeCreds {
	return &fakeCreds{byEmail: make(map[string]*entity.Credential)}
}

func (f *fakeCreds) seed(t *testing.T, email, password string) *entity.Credential {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	cred := &entity.Credential{
		ID:           "uid-" + email,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	f.byEmail[email] = cred
	return cred
}

func (f *fakeCreds) Create(_ context.Context, c *entity.Credential) error {
	if _, ok := f.byEmail[c.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	f.byEmail[c.Email] = c
	return nil
}

func (f *fakeCreds) GetByEmail(_ context.Context, email string) (*entity.Credential, error) {
	c, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func testJWTConfig() JWTConfig {
	return JWTConfig{Secret: "secreto-de-prueba", ExpMinutes: 60, Issuer: "stockku-test"}
}

func TestSignIn_CredencialValida(t *testing.T) {
	creds := newFakeCreds()
	stored := creds.seed(t, "admin@toko.com", "secreto1")
	p := NewProvider(creds, testJWTConfig(), logger.Nop())

	cred, err := p.SignIn(context.Background(), "admin@toko.com", "secreto1")
	require.NoError(t, err)

	assert.Equal(t, stored.ID, cred.UserID)
	assert.Equal(t, "admin@toko.com", cred.Email)
	assert.NotEmpty(t, cred.Token)
	assert.Same(t, cred, p.Current())
}

// Cada variante de fallo es un centinela distinto.
func TestSignIn_ErroresTipados(t *testing.T) {
	creds := newFakeCreds()
	creds.seed(t, "admin@toko.com", "secreto1")
	p := NewProvider(creds, testJWTConfig(), logger.Nop())
	ctx := context.Background()

	_, err := p.SignIn(ctx, "no-es-email", "secreto1")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = p.SignIn(ctx, "nadie@toko.com", "secreto1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = p.SignIn(ctx, "admin@toko.com", "equivocada")
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	assert.Nil(t, p.Current(), "ningún fallo publica credencial")
}

func TestSignOut_PublicaNil(t *testing.T) {
	creds := newFakeCreds()
	creds.seed(t, "admin@toko.com", "secreto1")
	p := NewProvider(creds, testJWTConfig(), logger.Nop())

	var seen []*session.Credential
	cancel := p.OnChange(func(c *session.Credential) { seen = append(seen, c) })
	defer cancel()

	_, err := p.SignIn(context.Background(), "admin@toko.com", "secreto1")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(context.Background()))

	assert.Nil(t, p.Current())
	// invocación inmediata (nil) + login + logout
	require.Len(t, seen, 3)
	assert.Nil(t, seen[0])
	assert.NotNil(t, seen[1])
	assert.Nil(t, seen[2])
}

// Propiedad de aislamiento: crear una cuenta dentro del contexto aislado no
// altera la credencial vigente del llamador ni notifica a sus observadores.
func TestIsolated_NoPerturbaLaSesionActiva(t *testing.T) {
	creds := newFakeCreds()
	creds.seed(t, "admin@toko.com", "secreto1")
	p := NewProvider(creds, testJWTConfig(), logger.Nop())
	ctx := context.Background()

	adminCred, err := p.SignIn(ctx, "admin@toko.com", "secreto1")
	require.NoError(t, err)

	notifications := 0
	cancel := p.OnChange(func(*session.Credential) { notifications++ })
	defer cancel()
	require.Equal(t, 1, notifications, "solo la invocación inmediata")

	iso, err := p.Isolated(ctx)
	require.NoError(t, err)
	userID, err := iso.CreateAccount(ctx, "staff@toko.com", "secreto2")
	require.NoError(t, err)
	require.NoError(t, iso.Close(ctx))

	assert.NotEmpty(t, userID)
	assert.Same(t, adminCred, p.Current(), "la credencial del admin sigue vigente")
	assert.Equal(t, 1, notifications, "ninguna transición publicada")

	// La cuenta nueva queda utilizable.
	_, err = p.SignIn(ctx, "staff@toko.com", "secreto2")
	assert.NoError(t, err)
}

func TestIsolated_EmailDuplicado(t *testing.T) {
	creds := newFakeCreds()
	creds.seed(t, "ya@toko.com", "secreto1")
	p := NewProvider(creds, testJWTConfig(), logger.Nop())
	ctx := context.Background()

	iso, err := p.Isolated(ctx)
	require.NoError(t, err)
	defer iso.Close(ctx)

	_, err = iso.CreateAccount(ctx, "ya@toko.com", "secreto2")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// Close idempotente: liberar dos veces no libera el cupo de otro contexto.
func TestIsolated_CloseIdempotente(t *testing.T) {
	p := NewProvider(newFakeCreds(), testJWTConfig(), logger.Nop())
	ctx := context.Background()

	iso, err := p.Isolated(ctx)
	require.NoError(t, err)
	require.NoError(t, iso.Close(ctx))
	assert.NotPanics(t, func() { _ = iso.Close(ctx) })

	// El cupo quedó libre exactamente una vez: un contexto nuevo lo toma.
	iso2, err := p.Isolated(ctx)
	require.NoError(t, err)
	require.NoError(t, iso2.Close(ctx))
}

func TestOnChange_CancelacionIdempotente(t *testing.T) {
	creds := newFakeCreds()
	creds.seed(t, "admin@toko.com", "secreto1")
	p := NewProvider(creds, testJWTConfig(), logger.Nop())

	calls := 0
	cancel := p.OnChange(func(*session.Credential) { calls++ })
	cancel()
	assert.NotPanics(t, cancel)

	_, err := p.SignIn(context.Background(), "admin@toko.com", "secreto1")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "solo la invocación inmediata, nada tras cancelar")
}
