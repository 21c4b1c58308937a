package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stockku/inventory-core/internal/domain"
	"github.com/stockku/inventory-core/internal/domain/entity"
	"github.com/stockku/inventory-core/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del almacén de perfiles sobre PostgreSQL.
type UserRepo struct {
	db querier
}

// NewUserRepository construye el adaptador de perfiles.
func NewUserRepository(db querier) *UserRepo {
	return &UserRepo{db: db}
}

// Create persiste el documento de perfil de un usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, email, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query, u.ID, u.Email, u.Name, string(u.Role), u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene el perfil por identificador de credencial; (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT id, email, name, role, created_at FROM users WHERE id = $1`
	var u entity.User
	var role string
	err := r.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	u.Role = entity.Role(role)
	return &u, nil
}

// ListStaff plantilla de staff, creación descendente.
func (r *UserRepo) ListStaff(ctx context.Context) ([]*entity.User, error) {
	query := `
		SELECT id, email, name, role, created_at
		FROM users WHERE role = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, string(entity.RoleStaff))
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Role = entity.Role(role)
		list = append(list, &u)
	}
	return list, rows.Err()
}

var _ repository.CredentialRepository = (*CredentialRepo)(nil)

// CredentialRepo almacén de credenciales del proveedor de autenticación.
type CredentialRepo struct {
	db querier
}

// NewCredentialRepository construye el adaptador de credenciales.
func NewCredentialRepository(db querier) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// Create persiste una credencial nueva. Devuelve ErrEmailAlreadyExists si el
// email ya tiene cuenta (constraint único).
func (r *CredentialRepo) Create(ctx context.Context, c *entity.Credential) error {
	query := `
		INSERT INTO credentials (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, c.ID, c.Email, c.PasswordHash, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

// GetByEmail obtiene una credencial por email; (nil, nil) si no existe.
func (r *CredentialRepo) GetByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	query := `SELECT id, email, password_hash, created_at FROM credentials WHERE email = $1`
	var c entity.Credential
	err := r.db.QueryRow(ctx, query, email).Scan(&c.ID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credential by email: %w", err)
	}
	return &c, nil
}
