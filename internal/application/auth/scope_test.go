package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Creditos-api/internal/application/auth"
)

func TestScope_AdminYSupervisorSinRestriccion(t *testing.T) {
	assert.True(t, auth.Scope{UserID: "u1", Role: "admin"}.AllowsRoute("r9"))
	assert.True(t, auth.Scope{UserID: "u1", Role: "supervisor"}.AllowsRoute(""))
}

func TestScope_VendedorSoloSusRutas(t *testing.T) {
	s := auth.Scope{UserID: "u2", Role: "vendedor", RouteIDs: []string{"r1", "r2"}}
	assert.True(t, s.AllowsRoute("r1"))
	assert.False(t, s.AllowsRoute("r3"))
	assert.False(t, s.AllowsRoute(""), "cliente sin ruta no es visible para el vendedor")
}

func TestScope_SinUsuarioNoAutoriza(t *testing.T) {
	assert.False(t, auth.Scope{Role: "admin"}.AllowsRoute("r1"))
}
