package session

import "context"

// Credential credencial opaca emitida por el proveedor de autenticación.
// Token viaja hacia el backend en cada operación; el resolver solo usa
// UserID y Email.
type Credential struct {
	UserID string
	Email  string
	Token  string
}

// CredentialSource puerto hacia el proveedor de autenticación. OnChange
// notifica cada transición de estado de credencial (nil al cerrar sesión) e
// invoca el callback de inmediato con el estado vigente al registrarse; la
// función de cancelación devuelta desregistra el callback y es idempotente.
type CredentialSource interface {
	SignIn(ctx context.Context, email, password string) (*Credential, error)
	SignOut(ctx context.Context) error
	OnChange(fn func(*Credential)) (cancel func())
}
