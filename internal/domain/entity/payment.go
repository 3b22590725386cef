package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash     = "EFECTIVO"
	PaymentMethodTransfer = "TRANSFERENCIA"
	PaymentMethodCard     = "TARJETA"
	PaymentMethodOther    = "OTRO"
)

// Payment abono a un crédito. Solo inserción, nunca se modifica.
type Payment struct {
	ID          string
	CreditID    string
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      string
	RecordedBy  string
	CreatedAt   time.Time

	Allocations []*PaymentAllocation
}

// PaymentAllocation porción de un abono atribuida a un producto del crédito.
type PaymentAllocation struct {
	ID        string
	PaymentID string
	CreditID  string
	ProductID string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// ValidPaymentMethod indica si el método es uno de los soportados.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}
