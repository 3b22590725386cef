package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Creditos-api/internal/application/auth"
	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// StockUseCase operaciones de inventario de vendedores que abren su propia transacción:
// asignación desde bodega y venta de contado.
type StockUseCase struct {
	txb         repository.TxBeginner
	coordinator *Coordinator
	vendors     repository.VendorRepository
	products    repository.ProductRepository
	clients     repository.ClientRepository
	stock       repository.VendorStockRepository
	movements   repository.InventoryMovementRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewStockUseCase construye el caso de uso. stock y movements se usan solo para consultas (pool).
func NewStockUseCase(
	txb repository.TxBeginner,
	coordinator *Coordinator,
	vendors repository.VendorRepository,
	products repository.ProductRepository,
	clients repository.ClientRepository,
	stock repository.VendorStockRepository,
	movements repository.InventoryMovementRepository,
	log zerolog.Logger,
) *StockUseCase {
	return &StockUseCase{
		txb:         txb,
		coordinator: coordinator,
		vendors:     vendors,
		products:    products,
		clients:     clients,
		stock:       stock,
		movements:   movements,
		log:         log,
		now:         time.Now,
	}
}

// AssignInput asignación de mercancía de bodega a un vendedor.
type AssignInput struct {
	VendorID    string
	ProductID   string
	Quantity    int
	Reference   string
	Observation string
}

// AssignToVendor traslada mercancía de BODEGA al vendedor (movimiento ENTRADA). Solo roles privilegiados.
func (uc *StockUseCase) AssignToVendor(ctx context.Context, scope auth.Scope, in AssignInput) (*entity.InventoryMovement, error) {
	if !scope.Privileged() {
		return nil, domain.ErrUnauthorized
	}
	if in.VendorID == "" || in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireVendor(ctx, in.VendorID); err != nil {
		return nil, err
	}
	if err := uc.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}

	uow, err := uc.txb.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	mov, err := uc.coordinator.Credit(ctx, uow, CreditInput{
		VendorID:    in.VendorID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		Origin:      entity.LocationWarehouse,
		RecordedBy:  scope.UserID,
		Reference:   in.Reference,
		Observation: in.Observation,
	})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("vendedor", in.VendorID).
		Str("producto", in.ProductID).
		Int("cantidad", in.Quantity).
		Msg("mercancía asignada a vendedor")
	return mov, nil
}

// CashSaleItem producto vendido de contado.
type CashSaleItem struct {
	ProductID string
	Quantity  int
}

// CashSaleInput venta de contado desde el stock del vendedor. ClientID es opcional.
type CashSaleInput struct {
	VendorID    string
	ClientID    string
	Items       []CashSaleItem
	Observation string
}

// CashSaleResult referencia sintética y movimientos generados.
type CashSaleResult struct {
	Reference string
	Movements []*entity.InventoryMovement
}

// RegisterCashSale descuenta del vendedor cada producto vendido de contado con la referencia
// CONTADO_{unix}_{vendedor}. Todo o nada: si un producto no alcanza no se descuenta ninguno.
func (uc *StockUseCase) RegisterCashSale(ctx context.Context, scope auth.Scope, in CashSaleInput) (*CashSaleResult, error) {
	if in.VendorID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	vendor, err := uc.vendors.GetByID(ctx, in.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, domain.ErrNotFound
	}
	if !scope.Privileged() && vendor.UserID != scope.UserID {
		return nil, domain.ErrUnauthorized
	}
	destination := entity.LocationCashSale
	if in.ClientID != "" {
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
		destination = entity.ClientLocation(client.ID)
	}
	for _, it := range in.Items {
		if err := uc.requireProduct(ctx, it.ProductID); err != nil {
			return nil, err
		}
	}

	now := uc.now()
	ref := entity.CashSaleReference(now, in.VendorID)

	uow, err := uc.txb.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	res := &CashSaleResult{Reference: ref}
	for _, it := range in.Items {
		mov, err := uc.coordinator.Debit(ctx, uow, DebitInput{
			VendorID:    in.VendorID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			Destination: destination,
			RecordedBy:  scope.UserID,
			Reference:   ref,
			Observation: in.Observation,
		})
		if err != nil {
			return nil, err
		}
		res.Movements = append(res.Movements, mov)
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	uc.log.Info().Str("referencia", ref).Int("productos", len(in.Items)).Msg("venta de contado registrada")
	return res, nil
}

// VendorStock lista el stock que carga un vendedor.
func (uc *StockUseCase) VendorStock(ctx context.Context, vendorID string) ([]*entity.VendorStock, error) {
	if err := uc.requireVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	return uc.stock.ListByVendor(ctx, vendorID)
}

// MovementsByReference lista los movimientos con una referencia (p. ej. CREDIT_{id}).
func (uc *StockUseCase) MovementsByReference(ctx context.Context, reference string) ([]*entity.InventoryMovement, error) {
	if reference == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movements.ListByReference(ctx, reference)
}

func (uc *StockUseCase) requireVendor(ctx context.Context, id string) error {
	v, err := uc.vendors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *StockUseCase) requireProduct(ctx context.Context, id string) error {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}
