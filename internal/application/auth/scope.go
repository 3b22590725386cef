// Package auth modela la identidad del llamador ya autenticada por el middleware HTTP.
// Resolver roles y rutas es responsabilidad externa; aquí solo se consulta el alcance.
package auth

import (
	"slices"

	"github.com/jhoicas/Creditos-api/internal/domain/entity"
)

// Scope identidad del llamador: usuario, rol y rutas permitidas (solo aplica a vendedores).
type Scope struct {
	UserID   string
	Role     string
	RouteIDs []string
}

// Privileged indica si el rol puede operar sobre cualquier ruta.
func (s Scope) Privileged() bool {
	return s.Role == entity.RoleAdmin || s.Role == entity.RoleSupervisor
}

// AllowsRoute indica si el llamador puede actuar sobre clientes de la ruta dada.
// Un vendedor sin la ruta en su lista no puede operar; clientes sin ruta solo los operan roles privilegiados.
func (s Scope) AllowsRoute(routeID string) bool {
	if s.UserID == "" {
		return false
	}
	if s.Privileged() {
		return true
	}
	if routeID == "" {
		return false
	}
	return slices.Contains(s.RouteIDs, routeID)
}
