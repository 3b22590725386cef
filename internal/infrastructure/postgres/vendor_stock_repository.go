package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
)

var _ repository.VendorStockRepository = (*VendorStockRepo)(nil)

// VendorStockRepo stock que carga cada vendedor (stock_vendedor). Usable con pool o tx.
type VendorStockRepo struct {
	q Querier
}

// NewVendorStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewVendorStockRepository(q Querier) *VendorStockRepo {
	return &VendorStockRepo{q: q}
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
// Sin fila devuelve cantidad 0.
func (r *VendorStockRepo) GetForUpdate(ctx context.Context, vendorID, productID string) (*entity.VendorStock, error) {
	query := `
		SELECT vendedor_id, producto_id, cantidad, updated_at
		FROM stock_vendedor WHERE vendedor_id = $1 AND producto_id = $2
		FOR UPDATE`
	var s entity.VendorStock
	err := r.q.QueryRow(ctx, query, vendorID, productID).Scan(&s.VendorID, &s.ProductID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.VendorStock{VendorID: vendorID, ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get stock vendedor for update: %w", err)
	}
	return &s, nil
}

func (r *VendorStockRepo) Update(ctx context.Context, s *entity.VendorStock) error {
	_, err := r.q.Exec(ctx,
		`UPDATE stock_vendedor SET cantidad = $3, updated_at = $4 WHERE vendedor_id = $1 AND producto_id = $2`,
		s.VendorID, s.ProductID, s.Quantity, s.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update stock vendedor: %w", err)
	}
	return nil
}

func (r *VendorStockRepo) Delete(ctx context.Context, vendorID, productID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM stock_vendedor WHERE vendedor_id = $1 AND producto_id = $2`, vendorID, productID)
	if err != nil {
		return fmt.Errorf("delete stock vendedor: %w", err)
	}
	return nil
}

// Increment inserta la fila o suma a la existente en una sola sentencia.
func (r *VendorStockRepo) Increment(ctx context.Context, vendorID, productID string, quantity int) (int, error) {
	query := `
		INSERT INTO stock_vendedor (vendedor_id, producto_id, cantidad, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (vendedor_id, producto_id)
		DO UPDATE SET cantidad = stock_vendedor.cantidad + EXCLUDED.cantidad, updated_at = now()
		RETURNING cantidad`
	var total int
	if err := r.q.QueryRow(ctx, query, vendorID, productID, quantity).Scan(&total); err != nil {
		return 0, fmt.Errorf("increment stock vendedor: %w", err)
	}
	return total, nil
}

func (r *VendorStockRepo) ListByVendor(ctx context.Context, vendorID string) ([]*entity.VendorStock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT vendedor_id, producto_id, cantidad, updated_at
		FROM stock_vendedor WHERE vendedor_id = $1 ORDER BY producto_id`, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list stock vendedor: %w", err)
	}
	defer rows.Close()
	out := []*entity.VendorStock{}
	for rows.Next() {
		var s entity.VendorStock
		if err := rows.Scan(&s.VendorID, &s.ProductID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
