package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Créditos y abonos.
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrCreditClosed       = errors.New("el crédito está cerrado y no admite abonos")
	ErrExceedsBalance     = errors.New("el abono supera el saldo pendiente")
	ErrUnknownProduct     = errors.New("el producto no pertenece al crédito")
	ErrAllocationMismatch = errors.New("la distribución no coincide con el monto del abono")
	ErrOverAllocated      = errors.New("la distribución supera el subtotal del producto")
	ErrNothingPending     = errors.New("el crédito no tiene saldo pendiente por producto")
)
