package credit

import (
	"context"
	"time"

	"github.com/jhoicas/Creditos-api/internal/application/auth"
	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
)

const backfillObservation = "Descuento retroactivo al anular crédito sin movimiento de inventario"

// Transition aplica una transición administrativa: ACTIVO→MOROSO o ACTIVO|MOROSO→CANCELADO.
// PAGADO solo lo asigna el registro de abonos y los estados terminales no admiten transiciones.
//
// Al anular un crédito que nunca descontó stock al vendedor (registros anteriores al descuento,
// sin movimiento con referencia CREDIT_{id}) se hace el descuento retroactivo en la misma transacción.
func (uc *LedgerUseCase) Transition(ctx context.Context, scope auth.Scope, creditID, next string) (*entity.Credit, error) {
	switch next {
	case entity.CreditStateOverdue, entity.CreditStateCancelled:
	case entity.CreditStateActive, entity.CreditStatePaid:
		return nil, domain.ErrInvalidTransition
	default:
		return nil, domain.ErrInvalidInput
	}
	if err := uc.authorize(ctx, scope, creditID); err != nil {
		return nil, err
	}

	uow, err := uc.txb.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	credit, err := uow.Credits().GetForUpdate(ctx, creditID)
	if err != nil {
		return nil, err
	}
	if credit == nil {
		return nil, domain.ErrNotFound
	}
	if !credit.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	backfilled := false
	if next == entity.CreditStateCancelled {
		backfilled, err = uc.backfillDebit(ctx, uow, credit, scope.UserID)
		if err != nil {
			return nil, err
		}
	}

	prev := credit.State
	credit.State = next
	credit.UpdatedAt = uc.now()
	if err := uow.Credits().UpdateState(ctx, credit); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("credito", credit.ID).
		Str("de", prev).
		Str("a", next).
		Bool("descuento_retroactivo", backfilled).
		Msg("transición de crédito")
	return credit, nil
}

// backfillDebit descuenta las líneas del crédito si aún no existe el movimiento CREDIT_{id}.
// La fila del crédito ya está bloqueada, así que dos anulaciones concurrentes no duplican el descuento.
func (uc *LedgerUseCase) backfillDebit(ctx context.Context, uow repository.UnitOfWork, credit *entity.Credit, recordedBy string) (bool, error) {
	items, err := uow.Credits().ListItems(ctx, credit.ID)
	if err != nil {
		return false, err
	}
	if len(items) == 0 {
		return false, nil
	}
	done, err := uow.Movements().ExistsByReference(ctx, entity.CreditReference(credit.ID))
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}
	credit.Items = items
	if err := uc.debitItems(ctx, uow, credit, recordedBy, backfillObservation); err != nil {
		return false, err
	}
	return true, nil
}

// MarkOverdue pasa a MOROSO los créditos ACTIVO con fecha de vencimiento anterior a now.
// Cada crédito se procesa en su propia transacción; devuelve cuántos cambiaron.
func (uc *LedgerUseCase) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	overdue, err := uc.credits.ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	marked := 0
	for _, c := range overdue {
		if c.State != entity.CreditStateActive {
			continue
		}
		ok, err := uc.markOne(ctx, c.ID, now)
		if err != nil {
			uc.log.Error().Err(err).Str("credito", c.ID).Msg("marcar crédito moroso")
			continue
		}
		if ok {
			marked++
		}
	}
	if marked > 0 {
		uc.log.Info().Int("creditos", marked).Msg("créditos marcados como morosos")
	}
	return marked, nil
}

func (uc *LedgerUseCase) markOne(ctx context.Context, creditID string, now time.Time) (bool, error) {
	uow, err := uc.txb.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	c, err := uow.Credits().GetForUpdate(ctx, creditID)
	if err != nil || c == nil {
		return false, err
	}
	if !c.IsOverdueAt(now) || !c.CanTransitionTo(entity.CreditStateOverdue) {
		return false, nil
	}
	c.State = entity.CreditStateOverdue
	c.UpdatedAt = now
	if err := uow.Credits().UpdateState(ctx, c); err != nil {
		return false, err
	}
	return true, uow.Commit(ctx)
}

// authorize verifica que el llamador pueda operar sobre el cliente del crédito.
func (uc *LedgerUseCase) authorize(ctx context.Context, scope auth.Scope, creditID string) error {
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
