package repository

import (
	"context"

	"github.com/jhoicas/Creditos-api/internal/domain/entity"
)

// VendorStockRepository define el puerto para el stock que carga cada vendedor.
// Usado dentro de transacciones para garantizar consistencia.
type VendorStockRepository interface {
	// GetForUpdate bloquea la fila; devuelve cantidad 0 si no existe.
	GetForUpdate(ctx context.Context, vendorID, productID string) (*entity.VendorStock, error)
	Update(ctx context.Context, stock *entity.VendorStock) error
	Delete(ctx context.Context, vendorID, productID string) error
	// Increment inserta o suma (upsert) y devuelve la cantidad resultante.
	Increment(ctx context.Context, vendorID, productID string, quantity int) (int, error)
	ListByVendor(ctx context.Context, vendorID string) ([]*entity.VendorStock, error)
}
