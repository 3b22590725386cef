// Package inventory coordina el stock que carga cada vendedor y su rastro de movimientos.
// Stock y movimiento se escriben siempre en la misma transacción que el evento que los causa.
package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Coordinator registra salidas y entradas de stock de vendedores dentro de la unidad de trabajo del llamador.
type Coordinator struct {
	registry *MovementTypeRegistry
	log      zerolog.Logger
	now      func() time.Time
}

// NewCoordinator construye el coordinador.
func NewCoordinator(registry *MovementTypeRegistry, log zerolog.Logger) *Coordinator {
	return &Coordinator{registry: registry, log: log, now: time.Now}
}

// DebitInput salida de stock del vendedor hacia Destination.
type DebitInput struct {
	VendorID    string
	ProductID   string
	Quantity    int
	Destination string
	RecordedBy  string
	Reference   string
	Observation string
}

// CreditInput entrada de stock al vendedor desde Origin (BODEGA si viene vacío).
type CreditInput struct {
	VendorID    string
	ProductID   string
	Quantity    int
	Origin      string
	RecordedBy  string
	Reference   string
	Observation string
}

// Debit descuenta Quantity del stock del vendedor y registra un movimiento SALIDA.
// Bloquea la fila (SELECT FOR UPDATE). Si el stock queda exactamente en cero la fila se elimina.
// No hay descuentos parciales: con stock insuficiente retorna domain.ErrInsufficientStock.
func (c *Coordinator) Debit(ctx context.Context, uow repository.UnitOfWork, in DebitInput) (*entity.InventoryMovement, error) {
	if in.VendorID == "" || in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	stockRepo := uow.VendorStock()
	stock, err := stockRepo.GetForUpdate(ctx, in.VendorID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if stock.Quantity < in.Quantity {
		c.log.Warn().
			Str("vendedor", in.VendorID).
			Str("producto", in.ProductID).
			Int("disponible", stock.Quantity).
			Int("solicitado", in.Quantity).
			Msg("stock insuficiente")
		return nil, domain.ErrInsufficientStock
	}

	now := c.now()
	if stock.Quantity == in.Quantity {
		if err := stockRepo.Delete(ctx, in.VendorID, in.ProductID); err != nil {
			return nil, err
		}
	} else {
		stock.Quantity -= in.Quantity
		stock.UpdatedAt = now
		if err := stockRepo.Update(ctx, stock); err != nil {
			return nil, err
		}
	}

	mt, err := c.registry.EnsureExists(ctx, uow, entity.MovementTypeSalida)
	if err != nil {
		return nil, err
	}
	mov := &entity.InventoryMovement{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		MovementTypeID: mt.ID,
		Quantity:       in.Quantity,
		Origin:         entity.VendorLocation(in.VendorID),
		Destination:    in.Destination,
		Reference:      in.Reference,
		Observation:    in.Observation,
		CreatedBy:      in.RecordedBy,
		CreatedAt:      now,
	}
	if err := uow.Movements().Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Credit suma Quantity al stock del vendedor (insertando la fila si no existe) y registra un movimiento ENTRADA.
func (c *Coordinator) Credit(ctx context.Context, uow repository.UnitOfWork, in CreditInput) (*entity.InventoryMovement, error) {
	if in.VendorID == "" || in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uow.VendorStock().Increment(ctx, in.VendorID, in.ProductID, in.Quantity); err != nil {
		return nil, err
	}
	mt, err := c.registry.EnsureExists(ctx, uow, entity.MovementTypeEntrada)
	if err != nil {
		return nil, err
	}
	origin := in.Origin
	if origin == "" {
		origin = entity.LocationWarehouse
	}
	mov := &entity.InventoryMovement{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		MovementTypeID: mt.ID,
		Quantity:       in.Quantity,
		Origin:         origin,
		Destination:    entity.VendorLocation(in.VendorID),
		Reference:      in.Reference,
		Observation:    in.Observation,
		CreatedBy:      in.RecordedBy,
		CreatedAt:      c.now(),
	}
	if err := uow.Movements().Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
