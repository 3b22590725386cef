package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
)

var _ repository.CreditRepository = (*CreditRepo)(nil)

// CreditRepo implementación de CreditRepository sobre PostgreSQL (usable con pool o tx).
type CreditRepo struct {
	q Querier
}

// NewCreditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreditRepository(q Querier) *CreditRepo {
	return &CreditRepo{q: q}
}

const creditColumns = `id, cliente_id, vendedor_id, monto_total, saldo_pendiente, cuota, numero_cuotas,
	frecuencia_pago, fecha_inicio, fecha_vencimiento, estado, creado_por, created_at, updated_at`

func (r *CreditRepo) Create(ctx context.Context, c *entity.Credit) error {
	query := `
		INSERT INTO creditos (` + creditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ClientID, c.VendorID, c.TotalAmount, c.Balance, c.Installment, c.InstallmentCount,
		c.Frequency, c.StartDate, c.DueDate, c.State, nullable(c.CreatedBy), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert credito: %w", err)
	}
	return nil
}

func (r *CreditRepo) CreateItem(ctx context.Context, it *entity.CreditItem) error {
	query := `
		INSERT INTO credito_detalle (id, credito_id, producto_id, cantidad, precio_unitario, subtotal, posicion)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, it.ID, it.CreditID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal, it.Position)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert credito_detalle: %w", err)
	}
	return nil
}

func (r *CreditRepo) GetByID(ctx context.Context, id string) (*entity.Credit, error) {
	return r.getOne(ctx, `SELECT `+creditColumns+` FROM creditos WHERE id = $1`, id)
}

// GetForUpdate obtiene el crédito y bloquea la fila (SELECT FOR UPDATE).
func (r *CreditRepo) GetForUpdate(ctx context.Context, id string) (*entity.Credit, error) {
	return r.getOne(ctx, `SELECT `+creditColumns+` FROM creditos WHERE id = $1 FOR UPDATE`, id)
}

func (r *CreditRepo) getOne(ctx context.Context, query, id string) (*entity.Credit, error) {
	c, err := scanCredit(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credito: %w", err)
	}
	return c, nil
}

func scanCredit(row pgx.Row) (*entity.Credit, error) {
	var c entity.Credit
	var createdBy *string
	err := row.Scan(
		&c.ID, &c.ClientID, &c.VendorID, &c.TotalAmount, &c.Balance, &c.Installment, &c.InstallmentCount,
		&c.Frequency, &c.StartDate, &c.DueDate, &c.State, &createdBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.CreatedBy = deref(createdBy)
	return &c, nil
}

func (r *CreditRepo) ListItems(ctx context.Context, creditID string) ([]*entity.CreditItem, error) {
	query := `
		SELECT id, credito_id, producto_id, cantidad, precio_unitario, subtotal, posicion
		FROM credito_detalle WHERE credito_id = $1 ORDER BY posicion`
	rows, err := r.q.Query(ctx, query, creditID)
	if err != nil {
		return nil, fmt.Errorf("list credito_detalle: %w", err)
	}
	defer rows.Close()
	var out []*entity.CreditItem
	for rows.Next() {
		var it entity.CreditItem
		if err := rows.Scan(&it.ID, &it.CreditID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal, &it.Position); err != nil {
			return nil, err
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *CreditRepo) UpdateBalanceAndState(ctx context.Context, c *entity.Credit) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE creditos SET saldo_pendiente = $2, estado = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.Balance, c.State, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update saldo credito: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CreditRepo) UpdateState(ctx context.Context, c *entity.Credit) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE creditos SET estado = $2, updated_at = $3 WHERE id = $1`,
		c.ID, c.State, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update estado credito: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CreditRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Credit, error) {
	return r.list(ctx, `SELECT `+creditColumns+` FROM creditos WHERE cliente_id = $1 ORDER BY created_at DESC`, clientID)
}

func (r *CreditRepo) ListByVendor(ctx context.Context, vendorID string) ([]*entity.Credit, error) {
	return r.list(ctx, `SELECT `+creditColumns+` FROM creditos WHERE vendedor_id = $1 ORDER BY created_at DESC`, vendorID)
}

func (r *CreditRepo) ListByState(ctx context.Context, state string) ([]*entity.Credit, error) {
	return r.list(ctx, `SELECT `+creditColumns+` FROM creditos WHERE estado = $1 ORDER BY created_at DESC`, state)
}

// ListOverdue créditos vencidos que aún no están pagados ni cancelados.
func (r *CreditRepo) ListOverdue(ctx context.Context, now time.Time) ([]*entity.Credit, error) {
	query := `
		SELECT ` + creditColumns + ` FROM creditos
		WHERE fecha_vencimiento < $1 AND estado NOT IN ('PAGADO', 'CANCELADO')
		ORDER BY fecha_vencimiento`
	return r.list(ctx, query, now)
}

func (r *CreditRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Credit, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list creditos: %w", err)
	}
	defer rows.Close()
	out := []*entity.Credit{}
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
