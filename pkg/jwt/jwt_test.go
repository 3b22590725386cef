package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Creditos-api/pkg/jwt"
)

const secret = "secreto-de-prueba"

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	id := pkgjwt.Identity{UserID: "u-1", Role: "vendedor", RouteIDs: []string{"r-1", "r-2"}}
	token, err := pkgjwt.Generate(secret, "creditos-api", 5, id)
	require.NoError(t, err)

	got, err := pkgjwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := pkgjwt.Generate("otro-secreto", "creditos-api", 5, pkgjwt.Identity{UserID: "u-1", Role: "admin"})
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := pkgjwt.Generate(secret, "creditos-api", -1, pkgjwt.Identity{UserID: "u-1", Role: "admin"})
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "x", 5, pkgjwt.Identity{UserID: "u-1"})
	assert.Error(t, err)
	_, err = pkgjwt.Parse("", "abc")
	assert.Error(t, err)
}
