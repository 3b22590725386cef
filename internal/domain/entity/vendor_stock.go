package entity

import "time"

// VendorStock cantidad de un producto que carga un vendedor.
// Una fila con cantidad cero no existe: se elimina al consumirse por completo.
type VendorStock struct {
	VendorID  string
	ProductID string
	Quantity  int
	UpdatedAt time.Time
}
