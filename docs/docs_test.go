package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/jhoicas/Creditos-api/docs"
)

func TestReadDoc_DocumentoValido(t *testing.T) {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Swagger string                     `json:"swagger"`
		Info    map[string]any             `json:"info"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "Créditos API", doc.Info["title"])
	for _, p := range []string{
		"/api/credits",
		"/api/credits/{id}/payments",
		"/api/payments/{id}/receipt",
		"/api/inventory/cash-sales",
	} {
		assert.Contains(t, doc.Paths, p)
	}
}
