package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un crédito.
const (
	CreditStateActive    = "ACTIVO"
	CreditStateOverdue   = "MOROSO"
	CreditStatePaid      = "PAGADO"
	CreditStateCancelled = "CANCELADO"
)

// Frecuencias de pago de la cuota.
const (
	FrequencyDaily    = "DIARIO"
	FrequencyWeekly   = "SEMANAL"
	FrequencyBiweekly = "QUINCENAL"
	FrequencyMonthly  = "MENSUAL"
)

// Credit representa una venta a crédito a un cliente, pagadera en cuotas.
// Invariante: 0 <= Balance <= TotalAmount.
type Credit struct {
	ID               string
	ClientID         string
	VendorID         string
	TotalAmount      decimal.Decimal
	Balance          decimal.Decimal // saldo pendiente
	Installment      decimal.Decimal // valor de la cuota
	InstallmentCount int
	Frequency        string
	StartDate        time.Time
	DueDate          time.Time
	State            string
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Items []*CreditItem
}

// IsClosed indica si el crédito está en un estado terminal (no admite abonos).
func (c *Credit) IsClosed() bool {
	return c.State == CreditStatePaid || c.State == CreditStateCancelled
}

// IsOverdueAt indica si el crédito está vencido en el instante dado.
func (c *Credit) IsOverdueAt(now time.Time) bool {
	return !c.IsClosed() && c.DueDate.Before(now)
}

// CanTransitionTo valida las transiciones administrativas permitidas.
// PAGADO nunca se solicita directamente: lo asigna el registro de abonos.
func (c *Credit) CanTransitionTo(next string) bool {
	switch next {
	case CreditStateOverdue:
		return c.State == CreditStateActive
	case CreditStateCancelled:
		return c.State == CreditStateActive || c.State == CreditStateOverdue
	default:
		return false
	}
}

// ValidFrequency indica si la frecuencia es una de las soportadas.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// CreditReference es la referencia con la que se registran los movimientos de inventario del crédito.
func CreditReference(creditID string) string {
	return "CREDIT_" + creditID
}
