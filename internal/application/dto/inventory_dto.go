package dto

import "time"

// AssignStockRequest cuerpo de POST /api/inventory/assignments (bodega → vendedor).
type AssignStockRequest struct {
	VendorID    string `json:"vendor_id"`
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	Reference   string `json:"reference,omitempty"`
	Observation string `json:"observation,omitempty"`
}

// CashSaleItemRequest producto vendido de contado.
type CashSaleItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CashSaleRequest cuerpo de POST /api/inventory/cash-sales.
type CashSaleRequest struct {
	VendorID    string                `json:"vendor_id"`
	ClientID    string                `json:"client_id,omitempty"`
	Items       []CashSaleItemRequest `json:"items"`
	Observation string                `json:"observation,omitempty"`
}

// MovementResponse movimiento de inventario.
type MovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	MovementTypeID string    `json:"movement_type_id"`
	Quantity       int       `json:"quantity"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	Reference      string    `json:"reference,omitempty"`
	Observation    string    `json:"observation,omitempty"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CashSaleResponse referencia de la venta y sus movimientos.
type CashSaleResponse struct {
	Reference string             `json:"reference"`
	Movements []MovementResponse `json:"movements"`
}

// VendorStockResponse existencia de un producto en manos del vendedor.
type VendorStockResponse struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}
