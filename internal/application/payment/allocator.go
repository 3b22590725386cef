// Package payment registra abonos a créditos y los distribuye entre los productos del crédito.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Creditos-api/internal/application/auth"
	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/ledger"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AllocatorUseCase es dueño de Payment y PaymentAllocation y el único que modifica
// saldo y estado de un crédito después de emitido.
type AllocatorUseCase struct {
	txb      repository.TxBeginner
	credits  repository.CreditRepository  // lecturas fuera de transacción
	payments repository.PaymentRepository // lecturas fuera de transacción
	clients  repository.ClientRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewAllocatorUseCase construye el caso de uso.
func NewAllocatorUseCase(
	txb repository.TxBeginner,
	credits repository.CreditRepository,
	payments repository.PaymentRepository,
	clients repository.ClientRepository,
	log zerolog.Logger,
) *AllocatorUseCase {
	return &AllocatorUseCase{
		txb:      txb,
		credits:  credits,
		payments: payments,
		clients:  clients,
		log:      log,
		now:      time.Now,
	}
}

// ManualAllocation parte del abono indicada por el usuario para un producto.
type ManualAllocation struct {
	ProductID string
	Amount    decimal.Decimal
}

// RegisterInput abono a registrar. Sin Manual se distribuye proporcionalmente al saldo pendiente de cada producto.
type RegisterInput struct {
	CreditID    string
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      string
	Manual      []ManualAllocation
}

// RegisterResult abono guardado (con su distribución) y crédito actualizado.
type RegisterResult struct {
	Payment *entity.Payment
	Credit  *entity.Credit
}

// Register guarda el abono, su distribución por producto y el nuevo saldo/estado del crédito
// en una sola transacción. La fila del crédito se bloquea (SELECT FOR UPDATE) antes de leer el saldo,
// de modo que dos abonos concurrentes al mismo crédito se aplican uno después del otro.
func (uc *AllocatorUseCase) Register(ctx context.Context, scope auth.Scope, in RegisterInput) (*RegisterResult, error) {
	if in.CreditID == "" || !in.Amount.IsPositive() || !ledger.IsCents(in.Amount) {
		return nil, domain.ErrInvalidInput
	}
	if in.Method == "" {
		in.Method = entity.PaymentMethodCash
	}
	if !entity.ValidPaymentMethod(in.Method) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.authorize(ctx, scope, in.CreditID); err != nil {
		return nil, err
	}

	now := uc.now()
	if in.PaymentDate.IsZero() {
		in.PaymentDate = now
	}

	uow, err := uc.txb.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	credit, err := uow.Credits().GetForUpdate(ctx, in.CreditID)
	if err != nil {
		return nil, err
	}
	if credit == nil {
		return nil, domain.ErrNotFound
	}
	if credit.IsClosed() {
		return nil, domain.ErrCreditClosed
	}
	if in.Amount.GreaterThan(credit.Balance) {
		return nil, domain.ErrExceedsBalance
	}

	allocs, err := uc.allocate(ctx, uow, credit.ID, in)
	if err != nil {
		return nil, err
	}

	payment := &entity.Payment{
		ID:          uuid.New().String(),
		CreditID:    credit.ID,
		Amount:      in.Amount,
		PaymentDate: in.PaymentDate,
		Method:      in.Method,
		RecordedBy:  scope.UserID,
		CreatedAt:   now,
	}
	if err := uow.Payments().Create(ctx, payment); err != nil {
		return nil, err
	}
	for _, a := range allocs {
		pa := &entity.PaymentAllocation{
			ID:        uuid.New().String(),
			PaymentID: payment.ID,
			CreditID:  credit.ID,
			ProductID: a.ProductID,
			Amount:    a.Amount,
			CreatedAt: now,
		}
		if err := uow.Payments().CreateAllocation(ctx, pa); err != nil {
			return nil, err
		}
		payment.Allocations = append(payment.Allocations, pa)
	}

	credit.Balance = ledger.NewBalance(credit.Balance, in.Amount)
	if credit.Balance.IsZero() {
		credit.State = entity.CreditStatePaid
	}
	credit.UpdatedAt = now
	if err := uow.Credits().UpdateBalanceAndState(ctx, credit); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("credito", credit.ID).
		Str("abono", payment.ID).
		Str("monto", payment.Amount.StringFixed(2)).
		Str("saldo", credit.Balance.StringFixed(2)).
		Str("estado", credit.State).
		Bool("manual", len(in.Manual) > 0).
		Msg("abono registrado")
	return &RegisterResult{Payment: payment, Credit: credit}, nil
}

// allocate decide la distribución por producto. Un crédito sin líneas no distribuye.
func (uc *AllocatorUseCase) allocate(ctx context.Context, uow repository.UnitOfWork, creditID string, in RegisterInput) ([]ledger.Allocation, error) {
	items, err := uow.Credits().ListItems(ctx, creditID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		if len(in.Manual) > 0 {
			return nil, domain.ErrUnknownProduct
		}
		return nil, nil
	}
	allocated, err := uow.Payments().AllocatedByProduct(ctx, creditID)
	if err != nil {
		return nil, fmt.Errorf("distribución previa del crédito %s: %w", creditID, err)
	}
	balances := itemBalances(items, allocated)

	if len(in.Manual) == 0 {
		return ledger.Proportional(in.Amount, balances)
	}
	manual := make([]ledger.Allocation, 0, len(in.Manual))
	for _, m := range in.Manual {
		manual = append(manual, ledger.Allocation{ProductID: m.ProductID, Amount: m.Amount})
	}
	return ledger.ValidateManual(in.Amount, balances, manual)
}

func itemBalances(items []*entity.CreditItem, allocated map[string]decimal.Decimal) []ledger.ItemBalance {
	out := make([]ledger.ItemBalance, 0, len(items))
	for _, it := range items {
		out = append(out, ledger.ItemBalance{
			ProductID: it.ProductID,
			Subtotal:  it.Subtotal,
			Allocated: allocated[it.ProductID],
		})
	}
	return out
}

func (uc *AllocatorUseCase) authorize(ctx context.Context, scope auth.Scope, creditID string) error {
	c, err := uc.credits.GetByID(ctx, creditID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	client, err := uc.clients.GetByID(ctx, c.ClientID)
	if err != nil {
		return err
	}
	if client == nil || !scope.AllowsRoute(client.RouteID) {
		return domain.ErrUnauthorized
	}
	return nil
}
