package repository

import (
	"context"

	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PaymentRepository define el puerto para abonos y su distribución por producto.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	CreateAllocation(ctx context.Context, alloc *entity.PaymentAllocation) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	ListByCredit(ctx context.Context, creditID string) ([]*entity.Payment, error)
	ListAllocationsByPayment(ctx context.Context, paymentID string) ([]*entity.PaymentAllocation, error)
	// AllocatedByProduct devuelve la suma histórica distribuida a cada producto del crédito.
	AllocatedByProduct(ctx context.Context, creditID string) (map[string]decimal.Decimal, error)
}
