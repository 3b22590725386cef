package entity

import "github.com/shopspring/decimal"

// CreditItem línea de producto fijada al emitir el crédito (inmutable).
type CreditItem struct {
	ID        string
	CreditID  string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal // Quantity * UnitPrice
	Position  int             // orden de inserción; define el orden de distribución
}
