package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditItemRequest línea de producto al emitir un crédito.
type CreditItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateCreditRequest cuerpo de POST /api/credits.
type CreateCreditRequest struct {
	ClientID         string              `json:"client_id"`
	VendorID         string              `json:"vendor_id"`
	Items            []CreditItemRequest `json:"items"`
	Installment      decimal.Decimal     `json:"installment"`       // cuota
	Frequency        string              `json:"frequency"`         // DIARIO|SEMANAL|QUINCENAL|MENSUAL
	InstallmentCount int                 `json:"installment_count"` // número de cuotas
	StartDate        string              `json:"start_date"`        // YYYY-MM-DD
	DueDate          string              `json:"due_date"`          // YYYY-MM-DD
	TotalAmount      *decimal.Decimal    `json:"total_amount,omitempty"`
}

// ChangeStateRequest cuerpo de PATCH /api/credits/:id/state.
type ChangeStateRequest struct {
	State string `json:"state"` // MOROSO | CANCELADO
}

// CreditListQuery filtros de GET /api/credits (uno a la vez).
type CreditListQuery struct {
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
	ClientID string `query:"client_id"`
	VendorID string `query:"vendor_id"`
	State    string `query:"estado"`
	Overdue  bool   `query:"vencidos"`
}

// Page devuelve la paginación solicitada con valores por defecto aplicados.
func (q CreditListQuery) Page() PageRequest {
	p := PageRequest{Limit: q.Limit, Offset: q.Offset}
	p.DefaultPage()
	return p
}

// CreditItemResponse línea del crédito.
type CreditItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CreditResponse crédito con sus líneas.
type CreditResponse struct {
	ID               string               `json:"id"`
	ClientID         string               `json:"client_id"`
	VendorID         string               `json:"vendor_id"`
	TotalAmount      decimal.Decimal      `json:"total_amount"`
	Balance          decimal.Decimal      `json:"balance"`
	Installment      decimal.Decimal      `json:"installment"`
	InstallmentCount int                  `json:"installment_count"`
	Frequency        string               `json:"frequency"`
	StartDate        string               `json:"start_date"`
	DueDate          string               `json:"due_date"`
	State            string               `json:"state"`
	CreatedBy        string               `json:"created_by,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	Items            []CreditItemResponse `json:"items,omitempty"`
}

// CreditListResponse página de créditos.
type CreditListResponse struct {
	Items []CreditResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
