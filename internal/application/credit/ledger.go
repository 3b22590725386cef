// Package credit implementa el libro de créditos: emisión, transiciones de estado y consultas.
package credit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Creditos-api/internal/application/auth"
	"github.com/jhoicas/Creditos-api/internal/application/inventory"
	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/ledger"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerUseCase es dueño del ciclo de vida de Credit y CreditItem.
type LedgerUseCase struct {
	txb         repository.TxBeginner
	credits     repository.CreditRepository // lecturas fuera de transacción
	clients     repository.ClientRepository
	vendors     repository.VendorRepository
	products    repository.ProductRepository
	coordinator *inventory.Coordinator
	log         zerolog.Logger
	now         func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txb repository.TxBeginner,
	credits repository.CreditRepository,
	clients repository.ClientRepository,
	vendors repository.VendorRepository,
	products repository.ProductRepository,
	coordinator *inventory.Coordinator,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txb:         txb,
		credits:     credits,
		clients:     clients,
		vendors:     vendors,
		products:    products,
		coordinator: coordinator,
		log:         log,
		now:         time.Now,
	}
}

// IssueItem línea solicitada al emitir.
type IssueItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// IssueInput datos para emitir un crédito. Items puede ir vacío (p. ej. un adelanto en efectivo).
// TotalAmount es opcional: si es nil se calcula como la suma de los subtotales.
type IssueInput struct {
	ClientID         string
	VendorID         string
	Items            []IssueItem
	Installment      decimal.Decimal
	Frequency        string
	InstallmentCount int
	StartDate        time.Time
	DueDate          time.Time
	TotalAmount      *decimal.Decimal
}

// Issue emite un crédito en una sola transacción: cabecera, líneas y descuento del stock del vendedor
// (referencia CREDIT_{id}, destino CLIENTE_{id}). Con stock insuficiente no queda nada escrito.
func (uc *LedgerUseCase) Issue(ctx context.Context, scope auth.Scope, in IssueInput) (*entity.Credit, error) {
	total, err := validateIssue(&in)
	if err != nil {
		return nil, err
	}

	client, err := uc.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if !scope.AllowsRoute(client.RouteID) {
		return nil, domain.ErrUnauthorized
	}
	vendor, err := uc.vendors.GetByID(ctx, in.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, domain.ErrNotFound
	}
	for _, it := range in.Items {
		p, err := uc.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := uc.now()
	credit := &entity.Credit{
		ID:               uuid.New().String(),
		ClientID:         in.ClientID,
		VendorID:         in.VendorID,
		TotalAmount:      total,
		Balance:          total,
		Installment:      in.Installment,
		InstallmentCount: in.InstallmentCount,
		Frequency:        in.Frequency,
		StartDate:        in.StartDate,
		DueDate:          in.DueDate,
		State:            entity.CreditStateActive,
		CreatedBy:        scope.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for i, it := range in.Items {
		credit.Items = append(credit.Items, &entity.CreditItem{
			ID:        uuid.New().String(),
			CreditID:  credit.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
			Position:  i + 1,
		})
	}

	uow, err := uc.txb.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if err := uow.Credits().Create(ctx, credit); err != nil {
		return nil, err
	}
	for _, item := range credit.Items {
		if err := uow.Credits().CreateItem(ctx, item); err != nil {
			return nil, err
		}
	}
	if err := uc.debitItems(ctx, uow, credit, scope.UserID, ""); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("credito", credit.ID).
		Str("cliente", credit.ClientID).
		Str("vendedor", credit.VendorID).
		Str("total", credit.TotalAmount.StringFixed(2)).
		Int("lineas", len(credit.Items)).
		Msg("crédito emitido")
	return credit, nil
}

// validateIssue valida la entrada antes de cualquier escritura y devuelve el total del crédito.
func validateIssue(in *IssueInput) (decimal.Decimal, error) {
	if in.ClientID == "" || in.VendorID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if !entity.ValidFrequency(in.Frequency) || in.InstallmentCount <= 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if !in.Installment.IsPositive() || !ledger.IsCents(in.Installment) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if in.StartDate.IsZero() || in.DueDate.IsZero() || in.DueDate.Before(in.StartDate) {
		return decimal.Zero, domain.ErrInvalidInput
	}

	seen := make(map[string]bool, len(in.Items))
	itemsTotal := decimal.Zero
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 || !it.UnitPrice.IsPositive() || !ledger.IsCents(it.UnitPrice) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		if seen[it.ProductID] {
			return decimal.Zero, domain.ErrInvalidInput
		}
		seen[it.ProductID] = true
		itemsTotal = itemsTotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	if in.TotalAmount == nil {
		if !itemsTotal.IsPositive() {
			return decimal.Zero, domain.ErrInvalidInput
		}
		return itemsTotal, nil
	}
	total := *in.TotalAmount
	if !total.IsPositive() || !ledger.IsCents(total) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	// Con líneas, el total no puede superar lo que los abonos pueden distribuir por producto:
	// precios en centavos y cantidades enteras hacen exacta la suma de subtotales.
	if len(in.Items) > 0 && total.GreaterThan(itemsTotal) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return total, nil
}

// debitItems descuenta del vendedor cada línea del crédito con la referencia CREDIT_{id}.
func (uc *LedgerUseCase) debitItems(ctx context.Context, uow repository.UnitOfWork, credit *entity.Credit, recordedBy, observation string) error {
	ref := entity.CreditReference(credit.ID)
	for _, item := range credit.Items {
		_, err := uc.coordinator.Debit(ctx, uow, inventory.DebitInput{
			VendorID:    credit.VendorID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Destination: entity.ClientLocation(credit.ClientID),
			RecordedBy:  recordedBy,
			Reference:   ref,
			Observation: observation,
		})
		if err != nil {
			return fmt.Errorf("descontar producto %s del crédito %s: %w", item.ProductID, credit.ID, err)
		}
	}
	return nil
}
