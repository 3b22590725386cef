package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Creditos-api/internal/domain/entity"
)

// CreditRepository define el puerto de persistencia para créditos y sus líneas.
type CreditRepository interface {
	Create(ctx context.Context, credit *entity.Credit) error
	CreateItem(ctx context.Context, item *entity.CreditItem) error
	GetByID(ctx context.Context, id string) (*entity.Credit, error)
	// GetForUpdate bloquea la fila del crédito (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Credit, error)
	ListItems(ctx context.Context, creditID string) ([]*entity.CreditItem, error)
	UpdateBalanceAndState(ctx context.Context, credit *entity.Credit) error
	UpdateState(ctx context.Context, credit *entity.Credit) error

	ListByClient(ctx context.Context, clientID string) ([]*entity.Credit, error)
	ListByVendor(ctx context.Context, vendorID string) ([]*entity.Credit, error)
	ListByState(ctx context.Context, state string) ([]*entity.Credit, error)
	// ListOverdue: due_date < now y estado no terminal.
	ListOverdue(ctx context.Context, now time.Time) ([]*entity.Credit, error)
}
