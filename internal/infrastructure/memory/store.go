// Package memory implementa los puertos de persistencia en memoria.
// Cada unidad de trabajo trabaja sobre una copia del estado y la publica al hacer Commit;
// las unidades de trabajo se serializan con un candado, como lo haría el bloqueo de filas.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
)

var _ repository.TxBeginner = (*Store)(nil)

type stockKey struct{ vendor, product string }

// state nunca se muta después de publicado: las escrituras reemplazan entradas con copias nuevas.
type state struct {
	credits     map[string]entity.Credit
	creditOrder []string
	items       map[string][]entity.CreditItem
	payments    map[string]entity.Payment
	payOrder    []string
	allocations []entity.PaymentAllocation
	movements   []entity.InventoryMovement
	stock       map[stockKey]entity.VendorStock
	types       map[string]entity.MovementType
}

func newState() *state {
	return &state{
		credits:  map[string]entity.Credit{},
		items:    map[string][]entity.CreditItem{},
		payments: map[string]entity.Payment{},
		stock:    map[stockKey]entity.VendorStock{},
		types:    map[string]entity.MovementType{},
	}
}

func (s *state) clone() *state {
	c := &state{
		credits:     make(map[string]entity.Credit, len(s.credits)),
		creditOrder: append([]string(nil), s.creditOrder...),
		items:       make(map[string][]entity.CreditItem, len(s.items)),
		payments:    make(map[string]entity.Payment, len(s.payments)),
		payOrder:    append([]string(nil), s.payOrder...),
		allocations: append([]entity.PaymentAllocation(nil), s.allocations...),
		movements:   append([]entity.InventoryMovement(nil), s.movements...),
		stock:       make(map[stockKey]entity.VendorStock, len(s.stock)),
		types:       make(map[string]entity.MovementType, len(s.types)),
	}
	for k, v := range s.credits {
		c.credits[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.CreditItem(nil), v...)
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.types {
		c.types[k] = v
	}
	return c
}

// Store estado en memoria más los directorios externos (clientes, productos, vendedores).
type Store struct {
	txMu   sync.Mutex
	dataMu sync.RWMutex
	data   *state

	dirMu    sync.RWMutex
	clients  map[string]entity.Client
	products map[string]entity.Product
	vendors  map[string]entity.Vendor
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		data:     newState(),
		clients:  map[string]entity.Client{},
		products: map[string]entity.Product{},
		vendors:  map[string]entity.Vendor{},
	}
}

func (s *Store) snapshot() *state {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.data
}

func (s *Store) publish(st *state) {
	s.dataMu.Lock()
	s.data = st
	s.dataMu.Unlock()
}

// Begin abre una unidad de trabajo; bloquea hasta que la anterior termine.
func (s *Store) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	s.txMu.Lock()
	if err := ctx.Err(); err != nil {
		s.txMu.Unlock()
		return nil, err
	}
	return &unitOfWork{store: s, st: s.snapshot().clone()}, nil
}

// ErrTxDone operación sobre una unidad de trabajo ya cerrada.
var ErrTxDone = errors.New("memory: transacción cerrada")

type unitOfWork struct {
	store *Store
	st    *state
	done  bool
}

func (u *unitOfWork) current() *state { return u.st }

func (u *unitOfWork) Credits() repository.CreditRepository   { return &creditRepo{st: u.current} }
func (u *unitOfWork) Payments() repository.PaymentRepository { return &paymentRepo{st: u.current} }
func (u *unitOfWork) Movements() repository.InventoryMovementRepository {
	return &movementRepo{st: u.current}
}
func (u *unitOfWork) VendorStock() repository.VendorStockRepository {
	return &stockRepo{st: u.current}
}
func (u *unitOfWork) MovementTypes() repository.MovementTypeRepository {
	return &typeRepo{st: u.current}
}

func (u *unitOfWork) Commit(_ context.Context) error {
	if u.done {
		return ErrTxDone
	}
	u.done = true
	u.store.publish(u.st)
	u.store.txMu.Unlock()
	return nil
}

func (u *unitOfWork) Rollback(_ context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	u.store.txMu.Unlock()
	return nil
}

// Repositorios de lectura sobre el último estado publicado.

func (s *Store) Credits() repository.CreditRepository {
	return &creditRepo{st: s.snapshot, readOnly: true}
}

func (s *Store) Payments() repository.PaymentRepository {
	return &paymentRepo{st: s.snapshot, readOnly: true}
}

func (s *Store) Movements() repository.InventoryMovementRepository {
	return &movementRepo{st: s.snapshot, readOnly: true}
}

func (s *Store) VendorStock() repository.VendorStockRepository {
	return &stockRepo{st: s.snapshot, readOnly: true}
}

// Directorios.

func (s *Store) AddClient(c entity.Client) {
	s.dirMu.Lock()
	defer s.dirMu.Unlock()
	s.clients[c.ID] = c
}

func (s *Store) AddProduct(p entity.Product) {
	s.dirMu.Lock()
	defer s.dirMu.Unlock()
	s.products[p.ID] = p
}

func (s *Store) AddVendor(v entity.Vendor) {
	s.dirMu.Lock()
	defer s.dirMu.Unlock()
	s.vendors[v.ID] = v
}

// SetVendorStock fija el stock de un vendedor sin registrar movimiento (datos de prueba).
func (s *Store) SetVendorStock(vendorID, productID string, qty int) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	st := s.snapshot().clone()
	k := stockKey{vendorID, productID}
	if qty == 0 {
		delete(st.stock, k)
	} else {
		st.stock[k] = entity.VendorStock{VendorID: vendorID, ProductID: productID, Quantity: qty}
	}
	s.publish(st)
}

// PutCredit inserta un crédito con sus líneas sin descontar stock (simula registros heredados).
func (s *Store) PutCredit(c entity.Credit, items []entity.CreditItem) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	st := s.snapshot().clone()
	if _, ok := st.credits[c.ID]; !ok {
		st.creditOrder = append(st.creditOrder, c.ID)
	}
	c.Items = nil
	st.credits[c.ID] = c
	st.items[c.ID] = append([]entity.CreditItem(nil), items...)
	s.publish(st)
}

func (s *Store) Clients() repository.ClientRepository   { return clientDir{s} }
func (s *Store) Products() repository.ProductRepository { return productDir{s} }
func (s *Store) Vendors() repository.VendorRepository   { return vendorDir{s} }

type clientDir struct{ s *Store }

func (d clientDir) GetByID(_ context.Context, id string) (*entity.Client, error) {
	d.s.dirMu.RLock()
	defer d.s.dirMu.RUnlock()
	c, ok := d.s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type productDir struct{ s *Store }

func (d productDir) GetByID(_ context.Context, id string) (*entity.Product, error) {
	d.s.dirMu.RLock()
	defer d.s.dirMu.RUnlock()
	p, ok := d.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type vendorDir struct{ s *Store }

func (d vendorDir) GetByID(_ context.Context, id string) (*entity.Vendor, error) {
	d.s.dirMu.RLock()
	defer d.s.dirMu.RUnlock()
	v, ok := d.s.vendors[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}
