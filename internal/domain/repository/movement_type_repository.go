package repository

import (
	"context"

	"github.com/jhoicas/Creditos-api/internal/domain/entity"
)

// MovementTypeRepository define el puerto para la tabla de tipos de movimiento.
type MovementTypeRepository interface {
	GetByKey(ctx context.Context, key string) (*entity.MovementType, error)
	// Create devuelve domain.ErrDuplicate si otro proceso ya creó la misma llave.
	Create(ctx context.Context, mt *entity.MovementType) error
}
