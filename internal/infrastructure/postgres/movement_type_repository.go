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

var _ repository.MovementTypeRepository = (*MovementTypeRepo)(nil)

// MovementTypeRepo tabla tipos_movimiento.
type MovementTypeRepo struct {
	q Querier
}

func NewMovementTypeRepository(q Querier) *MovementTypeRepo {
	return &MovementTypeRepo{q: q}
}

func (r *MovementTypeRepo) GetByKey(ctx context.Context, key string) (*entity.MovementType, error) {
	var mt entity.MovementType
	err := r.q.QueryRow(ctx,
		`SELECT id, nombre, llave, factor, descripcion, activo FROM tipos_movimiento WHERE llave = $1`, key,
	).Scan(&mt.ID, &mt.Name, &mt.Key, &mt.Factor, &mt.Description, &mt.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tipo movimiento: %w", err)
	}
	return &mt, nil
}

// Create inserta bajo un savepoint: si otra transacción ganó la llave, la violación de unicidad
// no aborta la transacción del llamador y se devuelve domain.ErrDuplicate.
func (r *MovementTypeRepo) Create(ctx context.Context, mt *entity.MovementType) error {
	sp, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("savepoint tipo movimiento: %w", err)
	}
	defer func() { _ = sp.Rollback(ctx) }()

	_, err = sp.Exec(ctx,
		`INSERT INTO tipos_movimiento (id, nombre, llave, factor, descripcion, activo) VALUES ($1, $2, $3, $4, $5, $6)`,
		mt.ID, mt.Name, mt.Key, mt.Factor, mt.Description, mt.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tipo movimiento: %w", err)
	}
	return sp.Commit(ctx)
}
