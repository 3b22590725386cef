package repository

import (
	"context"

	"github.com/jhoicas/Creditos-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ExistsByReference(ctx context.Context, reference string) (bool, error)
	ListByReference(ctx context.Context, reference string) ([]*entity.InventoryMovement, error)
}
