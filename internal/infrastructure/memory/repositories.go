package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
)

// ErrReadOnly escritura sobre un repositorio obtenido fuera de una unidad de trabajo.
var ErrReadOnly = errors.New("memory: repositorio de solo lectura")

type stateFn func() *state

// writable indica si el estado pertenece a una unidad de trabajo abierta.
func writable(st stateFn, readOnly bool) (*state, error) {
	if readOnly {
		return nil, ErrReadOnly
	}
	return st(), nil
}

// creditRepo

type creditRepo struct {
	st       stateFn
	readOnly bool
}

func (r *creditRepo) Create(_ context.Context, c *entity.Credit) error {
	s, err := writable(r.st, r.readOnly)
	if err != nil {
		return err
	}
	if _, ok := s.credits[c.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	cp.Items = nil
	s.credits[c.ID] = cp
	s.creditOrder = append(s.creditOrder, c.ID)
	return nil
}

func (r *creditRepo) CreateItem(_ context.Context, item *entity.CreditItem) error {
	s, err := writable(r.st, r.readOnly)
	if err != nil {
		return err
	}
	if _, ok := s.credits[item.CreditID]; !ok {
		return domain.ErrNotFound
	}
	s.items[item.CreditID] = append(s.items[item.CreditID], *item)
	return nil
}

func (r *creditRepo) GetByID(_ context.Context, id string) (*entity.Credit, error) {
	c, ok := r.st().credits[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetForUpdate: la unidad de trabajo ya tiene el candado exclusivo del almacén.
func (r *creditRepo) GetForUpdate(ctx context.Context, id string) (*entity.Credit, error) {
	return r.GetByID(ctx, id)
}

func (r *creditRepo) ListItems(_ context.Context, creditID string) ([]*entity.CreditItem, error) {
	src := r.st().items[creditID]
	out := make([]*entity.CreditItem, 0, len(src))
	for i := range src {
		it := src[i]
		out = append(out, &it)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *creditRepo) UpdateBalanceAndState(_ context.Context, c *entity.Credit) error {
	s, err := writable(r.st, r.readOnly)
	if err != nil {
		return err
	}
	cur, ok := s.credits[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Balance = c.Balance
	cur.State = c.State
	cur.UpdatedAt = c.UpdatedAt
	s.credits[c.ID] = cur
	return nil
}

func (r *creditRepo) UpdateState(_ context.Context, c *entity.Credit) error {
	s, err := writable(r.st, r.readOnly)
	if err != nil {
		return err
	}
	cur, ok := s.credits[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.State = c.State
	cur.UpdatedAt = c.UpdatedAt
	s.credits[c.ID] = cur
	return nil
}

func (r *creditRepo) list(match func(entity.Credit) bool) []*entity.Credit {
	s := r.st()
	out := []*entity.Credit{}
	for _, id := range s.creditOrder {
		c := s.credits[id]
		if match(c) {
			out = append(out, &c)
		}
	}
	return out
}

func (r *creditRepo) ListByClient(_ context.Context, clientID string) ([]*entity.Credit, error) {
	return r.list(func(c entity.Credit) bool { return c.ClientID == clientID }), nil
}

func (r *creditRepo) ListByVendor(_ context.Context, vendorID string) ([]*entity.Credit, error) {
	return r.list(func(c entity.Credit) bool { return c.VendorID == vendorID }), nil
}

func (r *creditRepo) ListByState(_ context.Context, st string) ([]*entity.Credit, error) {
	return r.list(func(c entity.Credit) bool { return c.State == st }), nil
}

func (r *creditRepo) ListOverdue(_ context.Context, now time.Time) ([]*entity.Credit, error) {
	return r.list(func(c entity.Credit) bool { return c.IsOverdueAt(now) }), nil
}

// paymentRepo

type paymentRepo struct {
	st       stateFn
	readOnly bool
}

func (r *paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	s, err := writable(r.st, r.readOnly)
	if err != nil {
		return err
	}
	if _, ok := s.payments[p.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *p
	cp.Allocations = nil
	s.payments[p.ID] = cp
	s.payOrder = append(s.payOrder, p.ID)
	return nil
}

func (r *paymentRepo) CreateAllocation(_ context.Context, a *entity.PaymentAllocation) error {
	s, err := writable(r.st, r.readOnly)
	if err != nil {
		return err
	}
	if _, ok := s.payments[a.PaymentID]; !ok {
		return domain.ErrNotFound
	}
	s.allocations = append(s.allocations, *a)
	return nil
}

func (r *paymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	p, ok := r.st().payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *paymentRepo) ListByCredit(_ context.Context, creditID string) ([]*entity.Payment, error) {
	s := r.st()
	out := []*entity.Payment{}
	for _, id := range s.payOrder {
		p := s.payments[id]
		if p.CreditID == creditID {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *paymentRepo) ListAllocationsByPayment(_ context.Context, paymentID string) ([]*entity.PaymentAllocation, error) {
	out := []*entity.PaymentAllocation{}
	for _, a := range r.st().allocations {
		if a.PaymentID == paymentID {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r *paymentRepo) AllocatedByProduct(_ context.Context, creditID string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	for _, a := range r.st().allocations {
		if a.CreditID == creditID {
			out[a.ProductID] = out[a.ProductID].Add(a.Amount)
		}
	}
	return out, nil
}

// movementRepo

type movementRepo struct {
	st       stateFn
	readOnly bool
}

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	s, err := writable(r.st, r.readOnly)
	if err != nil {
		return err
	}
	s.movements = append(s.movements, *m)
	return nil
}

func (r *movementRepo) ExistsByReference(_ context.Context, reference string) (bool, error) {
	for _, m := range r.st().movements {
		if m.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (r *movementRepo) ListByReference(_ context.Context, reference string) ([]*entity.InventoryMovement, error) {
	out := []*entity.InventoryMovement{}
	for _, m := range r.st().movements {
		if m.Reference == reference {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

// stockRepo

type stockRepo struct {
	st       stateFn
	readOnly bool
}

func (r *stockRepo) GetForUpdate(_ context.Context, vendorID, productID string) (*entity.VendorStock, error) {
	vs, ok := r.st().stock[stockKey{vendorID, productID}]
	if !ok {
		return &entity.VendorStock{VendorID: vendorID, ProductID: productID}, nil
	}
	return &vs, nil
}

func (r *stockRepo) Update(_ context.Context, vs *entity.VendorStock) error {
	s, err := writable(r.st, r.readOnly)
	if err != nil {
		return err
	}
	if vs.Quantity < 0 {
		return domain.ErrInsufficientStock
	}
	s.stock[stockKey{vs.VendorID, vs.ProductID}] = *vs
	return nil
}

func (r *stockRepo) Delete(_ context.Context, vendorID, productID string) error {
	s, err := writable(r.st, r.readOnly)
	if err != nil {
		return err
	}
	delete(s.stock, stockKey{vendorID, productID})
	return nil
}

func (r *stockRepo) Increment(_ context.Context, vendorID, productID string, qty int) (int, error) {
	s, err := writable(r.st, r.readOnly)
	if err != nil {
		return 0, err
	}
	k := stockKey{vendorID, productID}
	vs := s.stock[k]
	vs.VendorID, vs.ProductID = vendorID, productID
	vs.Quantity += qty
	vs.UpdatedAt = time.Now()
	s.stock[k] = vs
	return vs.Quantity, nil
}

func (r *stockRepo) ListByVendor(_ context.Context, vendorID string) ([]*entity.VendorStock, error) {
	out := []*entity.VendorStock{}
	for k, vs := range r.st().stock {
		if k.vendor == vendorID {
			vs := vs
			out = append(out, &vs)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// typeRepo

type typeRepo struct {
	st stateFn
}

func (r *typeRepo) GetByKey(_ context.Context, key string) (*entity.MovementType, error) {
	mt, ok := r.st().types[key]
	if !ok {
		return nil, nil
	}
	return &mt, nil
}

func (r *typeRepo) Create(_ context.Context, mt *entity.MovementType) error {
	s := r.st()
	if _, ok := s.types[mt.Key]; ok {
		return domain.ErrDuplicate
	}
	s.types[mt.Key] = *mt
	return nil
}
