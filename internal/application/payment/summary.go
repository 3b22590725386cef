package payment

import (
	"context"

	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// Summary agregado de abonos de un crédito.
type Summary struct {
	Credit      *entity.Credit
	Payments    []*entity.Payment
	TotalPaid   decimal.Decimal
	Remaining   decimal.Decimal
	PercentPaid decimal.Decimal
}

// Derive resume los abonos del crédito. El porcentaje se calcula sobre TotalAmount del crédito,
// no sobre las líneas, para que sea correcto también en créditos sin productos.
func (uc *AllocatorUseCase) Derive(ctx context.Context, creditID string) (*Summary, error) {
	credit, err := uc.credits.GetByID(ctx, creditID)
	if err != nil {
		return nil, err
	}
	if credit == nil {
		return nil, domain.ErrNotFound
	}
	payments, err := uc.payments.ListByCredit(ctx, creditID)
	if err != nil {
		return nil, err
	}
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return &Summary{
		Credit:      credit,
		Payments:    payments,
		TotalPaid:   paid,
		Remaining:   credit.Balance,
		PercentPaid: ledger.PercentPaid(paid, credit.TotalAmount),
	}, nil
}

// ItemStatus cuánto se ha abonado y cuánto falta por cada producto del crédito.
type ItemStatus struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Allocated decimal.Decimal
	Pending   decimal.Decimal
}

// Breakdown reconstruye, desde el historial de distribución, el saldo pendiente por producto.
func (uc *AllocatorUseCase) Breakdown(ctx context.Context, creditID string) ([]ItemStatus, error) {
	credit, err := uc.credits.GetByID(ctx, creditID)
	if err != nil {
		return nil, err
	}
	if credit == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.credits.ListItems(ctx, creditID)
	if err != nil {
		return nil, err
	}
	allocated, err := uc.payments.AllocatedByProduct(ctx, creditID)
	if err != nil {
		return nil, err
	}
	out := make([]ItemStatus, 0, len(items))
	for i, b := range itemBalances(items, allocated) {
		out = append(out, ItemStatus{
			ProductID: b.ProductID,
			Quantity:  items[i].Quantity,
			UnitPrice: items[i].UnitPrice,
			Subtotal:  b.Subtotal,
			Allocated: b.Allocated.Round(2),
			Pending:   b.Pending(),
		})
	}
	return out, nil
}
