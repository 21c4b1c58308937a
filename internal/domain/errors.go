package domain

import "errors"

// Errores de dominio (sin dependencias externas). La capa de presentación
// decide el mensaje final con errors.Is sobre estos centinelas.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")

	// Autenticación
	ErrInvalidEmail  = errors.New("formato de email inválido")
	ErrUserNotFound  = errors.New("usuario no encontrado")
	ErrWrongPassword = errors.New("password incorrecto")
	ErrAuthFailed    = errors.New("fallo de autenticación")

	// Aprovisionamiento de staff
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrWeakPassword       = errors.New("el password debe tener al menos 6 caracteres")
	ErrProvisioningFailed = errors.New("no se pudo crear la cuenta")

	// Mutaciones de stock
	ErrInvalidQuantity  = errors.New("cantidad de stock inválida")
	ErrPermissionDenied = errors.New("acceso denegado")
)
