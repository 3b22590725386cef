package entity

// Nombres base de tipos de movimiento.
const (
	MovementTypeEntrada       = "ENTRADA"
	MovementTypeSalida        = "SALIDA"
	MovementTypeAjuste        = "AJUSTE"
	MovementTypeTransferencia = "TRANSFERENCIA"
	MovementTypeDevolucion    = "DEVOLUCION"
)

// MovementType tipo de movimiento de inventario (tabla de referencia).
// Factor: +1 entrada, -1 salida, 0 neutro.
type MovementType struct {
	ID          string
	Name        string
	Key         string // nombre normalizado (mayúsculas, sin tildes)
	Factor      int
	Description string
	Active      bool
}
