package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// BaseMovementType configuración fija de un tipo de movimiento base.
type BaseMovementType struct {
	Name        string
	Factor      int
	Description string
}

// BaseMovementTypes tipos que siempre deben existir.
var BaseMovementTypes = []BaseMovementType{
	{Name: "ENTRADA", Factor: 1, Description: "Entrada de mercancía"},
	{Name: "SALIDA", Factor: -1, Description: "Salida de mercancía"},
	{Name: "AJUSTE", Factor: 0, Description: "Ajuste de inventario"},
	{Name: "TRANSFERENCIA", Factor: 0, Description: "Traslado entre ubicaciones"},
	{Name: "DEVOLUCION", Factor: 1, Description: "Devolución de mercancía"},
}

// MovementTypeKey normaliza un nombre para búsqueda: sin tildes, sin espacios extremos, en mayúsculas.
// "Devolución" y "devolucion" producen la misma llave.
func MovementTypeKey(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.TrimSpace(name))
	if err != nil {
		s = strings.TrimSpace(name)
	}
	return strings.ToUpper(s)
}

// LookupBase devuelve la configuración base para el nombre, o factor 0 si no es un tipo base.
func LookupBase(name string) (BaseMovementType, bool) {
	key := MovementTypeKey(name)
	for _, b := range BaseMovementTypes {
		if b.Name == key {
			return b, true
		}
	}
	return BaseMovementType{Name: key, Factor: 0, Description: "Tipo de movimiento " + strings.ToLower(key)}, false
}
