package repository

import "context"

// UnitOfWork agrupa los repositorios atados a una misma transacción.
// Quien la obtiene con TxBeginner.Begin es responsable de Commit o Rollback
// en todas las salidas; Rollback después de Commit no tiene efecto.
type UnitOfWork interface {
	Credits() CreditRepository
	Payments() PaymentRepository
	Movements() InventoryMovementRepository
	VendorStock() VendorStockRepository
	MovementTypes() MovementTypeRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxBeginner abre unidades de trabajo.
type TxBeginner interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
