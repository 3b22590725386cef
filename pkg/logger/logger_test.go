package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent_AgregaCampos(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(Config{Env: "production", Level: "info", App: "creditos-api"}, &buf)

	log := l.Component("abonos")
	log.Info().Str("credito", "c-1").Msg("abono registrado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "creditos-api", line["app"])
	assert.Equal(t, "abonos", line["componente"])
	assert.Equal(t, "c-1", line["credito"])
	assert.Equal(t, "abono registrado", line["message"])
}

func TestNivel_FiltraDebug(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(Config{Env: "production", Level: "warn"}, &buf)

	l.Info().Msg("no se escribe")
	assert.Empty(t, buf.String())

	l.Warn().Msg("sí se escribe")
	assert.Contains(t, buf.String(), "sí se escribe")
}

func TestParseLevel_Desconocido(t *testing.T) {
	assert.Equal(t, "info", parseLevel("verbose").String())
	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "debug", parseLevel("debug").String())
}
