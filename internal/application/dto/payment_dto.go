package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationRequest parte manual del abono para un producto.
type AllocationRequest struct {
	ProductID string          `json:"product_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// RegisterPaymentRequest cuerpo de POST /api/credits/:id/payments.
// Sin allocations el abono se distribuye proporcionalmente.
type RegisterPaymentRequest struct {
	Amount      decimal.Decimal     `json:"amount"`
	PaymentDate string              `json:"payment_date,omitempty"` // YYYY-MM-DD o RFC3339; vacío = ahora
	Method      string              `json:"method,omitempty"`       // EFECTIVO (defecto)|TRANSFERENCIA|TARJETA|OTRO
	Allocations []AllocationRequest `json:"allocations,omitempty"`
}

// AllocationResponse monto abonado a un producto.
type AllocationResponse struct {
	ProductID string          `json:"product_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// PaymentResponse abono con su distribución.
type PaymentResponse struct {
	ID          string               `json:"id"`
	CreditID    string               `json:"credit_id"`
	Amount      decimal.Decimal      `json:"amount"`
	PaymentDate time.Time            `json:"payment_date"`
	Method      string               `json:"method"`
	RecordedBy  string               `json:"recorded_by,omitempty"`
	Allocations []AllocationResponse `json:"allocations,omitempty"`
}

// RegisterPaymentResponse abono registrado y estado resultante del crédito.
type RegisterPaymentResponse struct {
	Payment     PaymentResponse `json:"payment"`
	Balance     decimal.Decimal `json:"balance"`
	CreditState string          `json:"credit_state"`
}

// PaymentSummaryResponse GET /api/credits/:id/payments.
type PaymentSummaryResponse struct {
	CreditID    string            `json:"credit_id"`
	Payments    []PaymentResponse `json:"payments"`
	TotalPaid   decimal.Decimal   `json:"total_paid"`
	Remaining   decimal.Decimal   `json:"remaining_balance"`
	PercentPaid decimal.Decimal   `json:"percent_paid"`
}

// ItemBreakdownResponse saldo pendiente por producto.
type ItemBreakdownResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Allocated decimal.Decimal `json:"allocated"`
	Pending   decimal.Decimal `json:"pending"`
}
