package repository

import (
	"context"

	"github.com/stockku/inventory-core/internal/domain/entity"
)

// UserRepository puerto del almacén de perfiles (colección users).
// GetByID devuelve (nil, nil) si el documento de perfil no existe:
// el resolver de identidad trata ese caso como rol sin resolver.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// ListStaff devuelve la plantilla de staff ordenada por creación descendente.
	ListStaff(ctx context.Context) ([]*entity.User, error)
}

// CredentialRepository puerto del almacén de credenciales del proveedor
// de autenticación. Create devuelve ErrEmailAlreadyExists si el email
// ya tiene cuenta.
type CredentialRepository interface {
	Create(ctx context.Context, c *entity.Credential) error
	GetByEmail(ctx context.Context, email string) (*entity.Credential, error)
}
