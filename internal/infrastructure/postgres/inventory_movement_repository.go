package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario. Los movimientos no se modifican ni se borran.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos_inventario
			(id, producto_id, tipo_movimiento_id, cantidad, origen, destino, referencia, observacion, creado_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.MovementTypeID, m.Quantity, m.Origin, m.Destination,
		nullable(m.Reference), nullable(m.Observation), nullable(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// ExistsByReference indica si hay al menos un movimiento con la referencia dada.
func (r *InventoryMovementRepo) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM movimientos_inventario WHERE referencia = $1)`, reference,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists movement by reference: %w", err)
	}
	return exists, nil
}

func (r *InventoryMovementRepo) ListByReference(ctx context.Context, reference string) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, producto_id, tipo_movimiento_id, cantidad, origen, destino, referencia, observacion, creado_por, created_at
		FROM movimientos_inventario WHERE referencia = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, reference)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	out := []*entity.InventoryMovement{}
	for rows.Next() {
		var m entity.InventoryMovement
		var ref, obs, createdBy *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.MovementTypeID, &m.Quantity, &m.Origin, &m.Destination,
			&ref, &obs, &createdBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Reference, m.Observation, m.CreatedBy = deref(ref), deref(obs), deref(createdBy)
		out = append(out, &m)
	}
	return out, rows.Err()
}
