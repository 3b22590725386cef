package entity

// Roles reconocidos en el token.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleVendedor   = "vendedor"
)
