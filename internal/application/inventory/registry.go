package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/inventory"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// MovementTypeRegistry garantiza que los tipos de movimiento existan y sean direccionables por nombre.
// Una carrera al crear el mismo tipo se resuelve releyendo: nunca debe hacer fallar al llamador
// por un tipo que otro proceso acaba de crear.
type MovementTypeRegistry struct {
	log zerolog.Logger
}

// NewMovementTypeRegistry construye el registro.
func NewMovementTypeRegistry(log zerolog.Logger) *MovementTypeRegistry {
	return &MovementTypeRegistry{log: log}
}

// EnsureExists busca el tipo por nombre (sin distinguir mayúsculas ni tildes) y lo crea si falta,
// dentro de la unidad de trabajo del llamador.
func (r *MovementTypeRegistry) EnsureExists(ctx context.Context, uow repository.UnitOfWork, name string) (*entity.MovementType, error) {
	key := inventory.MovementTypeKey(name)
	if key == "" {
		return nil, fmt.Errorf("tipo de movimiento sin nombre")
	}
	repo := uow.MovementTypes()
	mt, err := repo.GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("buscar tipo de movimiento %s: %w", key, err)
	}
	if mt != nil {
		return mt, nil
	}

	base, known := inventory.LookupBase(name)
	mt = &entity.MovementType{
		ID:          uuid.New().String(),
		Name:        base.Name,
		Key:         key,
		Factor:      base.Factor,
		Description: base.Description,
		Active:      true,
	}
	createErr := repo.Create(ctx, mt)
	if createErr == nil {
		r.log.Info().Str("tipo", key).Bool("base", known).Msg("tipo de movimiento creado")
		return mt, nil
	}

	// Otro proceso pudo crearlo entre la búsqueda y la inserción: releer.
	existing, err := repo.GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("releer tipo de movimiento %s: %w", key, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("crear tipo de movimiento %s: %w", key, createErr)
	}
	r.log.Debug().Str("tipo", key).Err(createErr).Msg("tipo de movimiento creado en paralelo, se reutiliza")
	return existing, nil
}

// SeedBase asegura los tipos base (ENTRADA, SALIDA, AJUSTE, TRANSFERENCIA, DEVOLUCION) en una transacción propia.
func (r *MovementTypeRegistry) SeedBase(ctx context.Context, txb repository.TxBeginner) error {
	uow, err := txb.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	for _, b := range inventory.BaseMovementTypes {
		if _, err := r.EnsureExists(ctx, uow, b.Name); err != nil {
			return err
		}
	}
	return uow.Commit(ctx)
}
