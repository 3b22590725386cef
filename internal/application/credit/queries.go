package credit

import (
	"context"

	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
)

// Proyecciones de solo lectura.

// Get devuelve el crédito con sus líneas.
func (uc *LedgerUseCase) Get(ctx context.Context, id string) (*entity.Credit, error) {
	c, err := uc.credits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.credits.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return c, nil
}

func (uc *LedgerUseCase) ListByClient(ctx context.Context, clientID string) ([]*entity.Credit, error) {
	return uc.credits.ListByClient(ctx, clientID)
}

func (uc *LedgerUseCase) ListByVendor(ctx context.Context, vendorID string) ([]*entity.Credit, error) {
	return uc.credits.ListByVendor(ctx, vendorID)
}

func (uc *LedgerUseCase) ListActive(ctx context.Context) ([]*entity.Credit, error) {
	return uc.credits.ListByState(ctx, entity.CreditStateActive)
}

// ListOverdue créditos con due_date < ahora y estado distinto de PAGADO/CANCELADO.
func (uc *LedgerUseCase) ListOverdue(ctx context.Context) ([]*entity.Credit, error) {
	return uc.credits.ListOverdue(ctx, uc.now())
}
