package entity

// Role rol resuelto para la sesión actual.
type Role string

// Roles válidos. RoleUnresolved cubre el caso de una credencial válida
// cuyo documento de perfil aún no existe: la sesión es autenticada pero
// no tiene privilegios para ninguna acción restringida por rol.
const (
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
	RoleUnresolved Role = ""
)

// CanManageProducts indica si el rol puede crear, editar y borrar productos.
func (r Role) CanManageProducts() bool { return r == RoleAdmin }

// CanProvisionStaff indica si el rol puede registrar cuentas de staff.
func (r Role) CanProvisionStaff() bool { return r == RoleAdmin }

// CanViewStats indica si el rol puede consultar estadísticas agregadas.
func (r Role) CanViewStats() bool { return r == RoleAdmin }

// CanAdjustStock indica si el rol puede actualizar cantidades de stock.
func (r Role) CanAdjustStock() bool { return r == RoleAdmin || r == RoleStaff }

// SessionStatus estado del ciclo de vida de la sesión.
type SessionStatus string

const (
	StatusLoading       SessionStatus = "loading"
	StatusAuthenticated SessionStatus = "authenticated"
	StatusAnonymous     SessionStatus = "anonymous"
)

// Session identidad y rol resueltos del usuario actual del proceso.
// Solo el resolver de identidad la muta; cualquier componente puede leerla.
// Role solo tiene significado cuando Status es StatusAuthenticated.
type Session struct {
	UserID string
	Email  string
	Role   Role
	Status SessionStatus
}

// IsAuthenticated indica si la sesión completó el login y la carga de perfil.
func (s Session) IsAuthenticated() bool { return s.Status == StatusAuthenticated }
