package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Creditos-api/internal/domain/repository"
)

var _ repository.TxBeginner = (*TxManager)(nil)

// TxManager abre unidades de trabajo sobre transacciones PostgreSQL (READ COMMITTED).
// La consistencia entre abonos o descuentos concurrentes la dan los SELECT FOR UPDATE de los repositorios.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager construye el manejador con el pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// Begin inicia una transacción y devuelve los repositorios atados a ella.
func (m *TxManager) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &unitOfWork{tx: tx}, nil
}

type unitOfWork struct {
	tx pgx.Tx
}

func (u *unitOfWork) Credits() repository.CreditRepository { return NewCreditRepository(u.tx) }

func (u *unitOfWork) Payments() repository.PaymentRepository { return NewPaymentRepository(u.tx) }

func (u *unitOfWork) Movements() repository.InventoryMovementRepository {
	return NewInventoryMovementRepository(u.tx)
}

func (u *unitOfWork) VendorStock() repository.VendorStockRepository {
	return NewVendorStockRepository(u.tx)
}

func (u *unitOfWork) MovementTypes() repository.MovementTypeRepository {
	return NewMovementTypeRepository(u.tx)
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback después de Commit devuelve pgx.ErrTxClosed, que aquí no es un error.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}
