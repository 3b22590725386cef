package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo abonos (pagos) y su distribución por producto (pago_detalle_producto).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO pagos (id, credito_id, monto, fecha_pago, metodo_pago, registrado_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, p.ID, p.CreditID, p.Amount, p.PaymentDate, p.Method, nullable(p.RecordedBy), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert pago: %w", err)
	}
	return nil
}

func (r *PaymentRepo) CreateAllocation(ctx context.Context, a *entity.PaymentAllocation) error {
	query := `
		INSERT INTO pago_detalle_producto (id, pago_id, credito_id, producto_id, monto, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, a.ID, a.PaymentID, a.CreditID, a.ProductID, a.Amount, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert pago_detalle_producto: %w", err)
	}
	return nil
}

const paymentColumns = `id, credito_id, monto, fecha_pago, metodo_pago, registrado_por, created_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	var recordedBy *string
	if err := row.Scan(&p.ID, &p.CreditID, &p.Amount, &p.PaymentDate, &p.Method, &recordedBy, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.RecordedBy = deref(recordedBy)
	return &p, nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM pagos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pago: %w", err)
	}
	return p, nil
}

// ListByCredit abonos del crédito en orden cronológico.
func (r *PaymentRepo) ListByCredit(ctx context.Context, creditID string) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+paymentColumns+` FROM pagos WHERE credito_id = $1 ORDER BY created_at, id`, creditID)
	if err != nil {
		return nil, fmt.Errorf("list pagos: %w", err)
	}
	defer rows.Close()
	out := []*entity.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PaymentRepo) ListAllocationsByPayment(ctx context.Context, paymentID string) ([]*entity.PaymentAllocation, error) {
	query := `
		SELECT pd.id, pd.pago_id, pd.credito_id, pd.producto_id, pd.monto, pd.created_at
		FROM pago_detalle_producto pd
		LEFT JOIN credito_detalle cd ON cd.credito_id = pd.credito_id AND cd.producto_id = pd.producto_id
		WHERE pd.pago_id = $1
		ORDER BY cd.posicion NULLS LAST, pd.producto_id`
	rows, err := r.q.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list pago_detalle_producto: %w", err)
	}
	defer rows.Close()
	out := []*entity.PaymentAllocation{}
	for rows.Next() {
		var a entity.PaymentAllocation
		if err := rows.Scan(&a.ID, &a.PaymentID, &a.CreditID, &a.ProductID, &a.Amount, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// AllocatedByProduct suma histórica distribuida por producto del crédito.
func (r *PaymentRepo) AllocatedByProduct(ctx context.Context, creditID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT producto_id, COALESCE(SUM(monto), 0)
		FROM pago_detalle_producto WHERE credito_id = $1
		GROUP BY producto_id`
	rows, err := r.q.Query(ctx, query, creditID)
	if err != nil {
		return nil, fmt.Errorf("sum pago_detalle_producto: %w", err)
	}
	defer rows.Close()
	out := map[string]decimal.Decimal{}
	for rows.Next() {
		var productID string
		var total decimal.Decimal
		if err := rows.Scan(&productID, &total); err != nil {
			return nil, err
		}
		out[productID] = total
	}
	return out, rows.Err()
}
