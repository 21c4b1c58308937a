package entity

import "time"

// User documento de perfil de un usuario (colección users), clave por el
// identificador asignado por el proveedor de autenticación. El rol que
// determina las capacidades de la sesión se resuelve contra este documento.
type User struct {
	ID        string // identificador de la credencial
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
}

// Credential cuenta en el proveedor de autenticación. El hash nunca sale
// de la capa de infraestructura de auth.
type Credential struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
