package entity

import (
	"fmt"
	"time"
)

// Etiquetas de origen/destino de los movimientos (semánticas, no llaves foráneas).
const (
	LocationWarehouse = "BODEGA"
	LocationCashSale  = "VENTA_CONTADO"
)

// InventoryMovement registro de auditoría de un traslado de producto.
// Solo inserción.
type InventoryMovement struct {
	ID             string
	ProductID      string
	MovementTypeID string
	Quantity       int
	Origin         string
	Destination    string
	Reference      string
	Observation    string
	CreatedBy      string
	CreatedAt      time.Time
}

// VendorLocation etiqueta VENDEDOR_{id}.
func VendorLocation(vendorID string) string { return "VENDEDOR_" + vendorID }

// ClientLocation etiqueta CLIENTE_{id}.
func ClientLocation(clientID string) string { return "CLIENTE_" + clientID }

// CashSaleReference referencia sintética de una venta de contado: CONTADO_{unix}_{vendedor}.
func CashSaleReference(at time.Time, vendorID string) string {
	return fmt.Sprintf("CONTADO_%d_%s", at.Unix(), vendorID)
}
