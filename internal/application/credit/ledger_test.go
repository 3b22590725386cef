package credit_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Creditos-api/internal/application/auth"
	"github.com/jhoicas/Creditos-api/internal/application/credit"
	"github.com/jhoicas/Creditos-api/internal/application/inventory"
	"github.com/jhoicas/Creditos-api/internal/application/payment"
	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	clientID = "cli-1"
	vendorID = "vend-1"
	productA = "prod-a"
	productB = "prod-b"
	routeID  = "ruta-norte"
)

var (
	adminScope  = auth.Scope{UserID: "admin-1", Role: entity.RoleAdmin}
	vendorScope = auth.Scope{UserID: "user-vend-1", Role: entity.RoleVendedor, RouteIDs: []string{routeID}}
	otherRoute  = auth.Scope{UserID: "user-vend-2", Role: entity.RoleVendedor, RouteIDs: []string{"ruta-sur"}}
)

type fixture struct {
	store  *memory.Store
	ledger *credit.LedgerUseCase
}

func newFixture() *fixture {
	s := memory.NewStore()
	s.AddClient(entity.Client{ID: clientID, Name: "Ana", RouteID: routeID, Active: true})
	s.AddVendor(entity.Vendor{ID: vendorID, UserID: "user-vend-1", Name: "Pedro", Active: true})
	s.AddProduct(entity.Product{ID: productA, Name: "Olla", Price: decimal.NewFromInt(10), Active: true})
	s.AddProduct(entity.Product{ID: productB, Name: "Sartén", Price: decimal.NewFromInt(30), Active: true})

	log := zerolog.Nop()
	coord := inventory.NewCoordinator(inventory.NewMovementTypeRegistry(log), log)
	return &fixture{
		store:  s,
		ledger: credit.NewLedgerUseCase(s, s.Credits(), s.Clients(), s.Vendors(), s.Products(), coord, log),
	}
}

func (f *fixture) stock(t *testing.T, product string) int {
	t.Helper()
	rows, err := f.store.VendorStock().ListByVendor(context.Background(), vendorID)
	require.NoError(t, err)
	for _, r := range rows {
		if r.ProductID == product {
			return r.Quantity
		}
	}
	return 0
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// issueInput: 2 × A a 10 + 1 × B a 30 = 50.
func issueInput() credit.IssueInput {
	start := time.Now().Truncate(24 * time.Hour)
	return credit.IssueInput{
		ClientID: clientID,
		VendorID: vendorID,
		Items: []credit.IssueItem{
			{ProductID: productA, Quantity: 2, UnitPrice: d("10")},
			{ProductID: productB, Quantity: 1, UnitPrice: d("30")},
		},
		Installment:      d("5"),
		Frequency:        entity.FrequencyWeekly,
		InstallmentCount: 10,
		StartDate:        start,
		DueDate:          start.AddDate(0, 3, 0),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Issue
// ──────────────────────────────────────────────────────────────────────────────

func TestIssue_DescuentaStockYRegistraMovimientos(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.SetVendorStock(vendorID, productA, 5)
	f.store.SetVendorStock(vendorID, productB, 2)

	c, err := f.ledger.Issue(ctx, vendorScope, issueInput())
	require.NoError(t, err)

	assert.True(t, c.TotalAmount.Equal(d("50")))
	assert.True(t, c.Balance.Equal(d("50")))
	assert.Equal(t, entity.CreditStateActive, c.State)
	assert.Equal(t, vendorScope.UserID, c.CreatedBy)
	require.Len(t, c.Items, 2)
	assert.True(t, c.Items[0].Subtotal.Equal(d("20")))
	assert.True(t, c.Items[1].Subtotal.Equal(d("30")))

	assert.Equal(t, 3, f.stock(t, productA))
	assert.Equal(t, 1, f.stock(t, productB))

	movs, err := f.store.Movements().ListByReference(ctx, entity.CreditReference(c.ID))
	require.NoError(t, err)
	require.Len(t, movs, 2)

	uow, err := f.store.Begin(ctx)
	require.NoError(t, err)
	salida, err := uow.MovementTypes().GetByKey(ctx, "SALIDA")
	require.NoError(t, err)
	require.NoError(t, uow.Rollback(ctx))
	require.NotNil(t, salida)
	for _, m := range movs {
		assert.Equal(t, salida.ID, m.MovementTypeID)
		assert.Equal(t, entity.VendorLocation(vendorID), m.Origin)
		assert.Equal(t, entity.ClientLocation(clientID), m.Destination)
	}

	got, err := f.ledger.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestIssue_StockInsuficienteNoDejaNada(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.SetVendorStock(vendorID, productA, 5)
	f.store.SetVendorStock(vendorID, productB, 2)

	in := issueInput()
	in.Items[1].Quantity = 5 // solo hay 2

	_, err := f.ledger.Issue(ctx, vendorScope, in)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	credits, err := f.ledger.ListByClient(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, credits)
	assert.Equal(t, 5, f.stock(t, productA), "el descuento de la primera línea debe revertirse")
	assert.Equal(t, 2, f.stock(t, productB))
}

func TestIssue_SinLineasConTotal(t *testing.T) {
	f := newFixture()
	in := issueInput()
	in.Items = nil
	total := d("120.50")
	in.TotalAmount = &total

	c, err := f.ledger.Issue(context.Background(), adminScope, in)
	require.NoError(t, err)
	assert.True(t, c.Balance.Equal(total))
	assert.Empty(t, c.Items)
}

// Un total distinto de la suma de subtotales nunca debe dejar saldo que ningún producto pueda absorber.
func TestIssue_TotalDistintoDeLineas(t *testing.T) {
	cases := map[string]struct {
		total    string
		payments []string
	}{
		"total igual a líneas": {total: "50", payments: []string{"30", "20"}},
		"total con descuento":  {total: "45.50", payments: []string{"40", "5.50"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.store.SetVendorStock(vendorID, productA, 5)
			f.store.SetVendorStock(vendorID, productB, 2)
			allocator := payment.NewAllocatorUseCase(f.store, f.store.Credits(), f.store.Payments(), f.store.Clients(), zerolog.Nop())

			in := issueInput()
			total := d(tc.total)
			in.TotalAmount = &total
			c, err := f.ledger.Issue(context.Background(), adminScope, in)
			require.NoError(t, err)
			assert.True(t, c.Balance.Equal(total))

			var res *payment.RegisterResult
			for _, amount := range tc.payments {
				res, err = allocator.Register(context.Background(), adminScope, payment.RegisterInput{CreditID: c.ID, Amount: d(amount)})
				require.NoError(t, err, "abono de %s", amount)
			}
			assert.True(t, res.Credit.Balance.IsZero())
			assert.Equal(t, entity.CreditStatePaid, res.Credit.State)
		})
	}
}

func TestIssue_Validaciones(t *testing.T) {
	f := newFixture()
	f.store.SetVendorStock(vendorID, productA, 5)
	f.store.SetVendorStock(vendorID, productB, 2)

	tooHigh := d("60")
	oneCentOver := d("50.01")
	fraction := d("10.005")
	cases := map[string]func(in *credit.IssueInput){
		"frecuencia desconocida":        func(in *credit.IssueInput) { in.Frequency = "ANUAL" },
		"sin cuotas":                    func(in *credit.IssueInput) { in.InstallmentCount = 0 },
		"cuota negativa":                func(in *credit.IssueInput) { in.Installment = d("-1") },
		"vence antes de iniciar":        func(in *credit.IssueInput) { in.DueDate = in.StartDate.AddDate(0, 0, -1) },
		"cantidad cero":                 func(in *credit.IssueInput) { in.Items[0].Quantity = 0 },
		"producto repetido":             func(in *credit.IssueInput) { in.Items[1].ProductID = productA },
		"total mayor que líneas":        func(in *credit.IssueInput) { in.TotalAmount = &tooHigh },
		"total un centavo sobre líneas": func(in *credit.IssueInput) { in.TotalAmount = &oneCentOver },
		"precio con milésimas":          func(in *credit.IssueInput) { in.Items[0].UnitPrice = fraction },
		"sin líneas ni total":           func(in *credit.IssueInput) { in.Items = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := issueInput()
			mutate(&in)
			_, err := f.ledger.Issue(context.Background(), adminScope, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 5, f.stock(t, productA))
}

func TestIssue_ReferenciasInexistentes(t *testing.T) {
	f := newFixture()

	in := issueInput()
	in.ClientID = "no-existe"
	_, err := f.ledger.Issue(context.Background(), adminScope, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = issueInput()
	in.VendorID = "no-existe"
	_, err = f.ledger.Issue(context.Background(), adminScope, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = issueInput()
	in.Items[0].ProductID = "no-existe"
	_, err = f.ledger.Issue(context.Background(), adminScope, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIssue_RutaNoAutorizada(t *testing.T) {
	f := newFixture()
	f.store.SetVendorStock(vendorID, productA, 5)
	f.store.SetVendorStock(vendorID, productB, 2)

	_, err := f.ledger.Issue(context.Background(), otherRoute, issueInput())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 5, f.stock(t, productA))
}

// ──────────────────────────────────────────────────────────────────────────────
// Transition
// ──────────────────────────────────────────────────────────────────────────────

func (f *fixture) issue(t *testing.T) *entity.Credit {
	t.Helper()
	f.store.SetVendorStock(vendorID, productA, 5)
	f.store.SetVendorStock(vendorID, productB, 2)
	c, err := f.ledger.Issue(context.Background(), adminScope, issueInput())
	require.NoError(t, err)
	return c
}

// legacyCredit crédito con líneas pero sin movimiento de inventario asociado.
func (f *fixture) legacyCredit(id string, due time.Time) {
	now := time.Now()
	f.store.PutCredit(entity.Credit{
		ID: id, ClientID: clientID, VendorID: vendorID,
		TotalAmount: d("50"), Balance: d("50"), Installment: d("5"), InstallmentCount: 10,
		Frequency: entity.FrequencyWeekly, StartDate: due.AddDate(0, -3, 0), DueDate: due,
		State: entity.CreditStateActive, CreatedAt: now, UpdatedAt: now,
	}, []entity.CreditItem{
		{ID: id + "-1", CreditID: id, ProductID: productA, Quantity: 2, UnitPrice: d("10"), Subtotal: d("20"), Position: 1},
		{ID: id + "-2", CreditID: id, ProductID: productB, Quantity: 1, UnitPrice: d("30"), Subtotal: d("30"), Position: 2},
	})
}

func TestTransition_ActivoMorosoCancelado(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := f.issue(t)

	got, err := f.ledger.Transition(ctx, vendorScope, c.ID, entity.CreditStateOverdue)
	require.NoError(t, err)
	assert.Equal(t, entity.CreditStateOverdue, got.State)

	got, err = f.ledger.Transition(ctx, vendorScope, c.ID, entity.CreditStateCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.CreditStateCancelled, got.State)

	// Ya había descontado al emitir: la anulación no descuenta de nuevo.
	assert.Equal(t, 3, f.stock(t, productA))
	assert.Equal(t, 1, f.stock(t, productB))
	movs, err := f.store.Movements().ListByReference(ctx, entity.CreditReference(c.ID))
	require.NoError(t, err)
	assert.Len(t, movs, 2)
}

func TestTransition_Rechazos(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := f.issue(t)

	_, err := f.ledger.Transition(ctx, adminScope, c.ID, entity.CreditStatePaid)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.ledger.Transition(ctx, adminScope, c.ID, entity.CreditStateActive)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.ledger.Transition(ctx, adminScope, c.ID, "CONGELADO")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.Transition(ctx, adminScope, "no-existe", entity.CreditStateOverdue)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.ledger.Transition(ctx, otherRoute, c.ID, entity.CreditStateOverdue)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.ledger.Transition(ctx, adminScope, c.ID, entity.CreditStateCancelled)
	require.NoError(t, err)
	_, err = f.ledger.Transition(ctx, adminScope, c.ID, entity.CreditStateOverdue)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransition_AnularCreditoHeredadoDescuentaUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.SetVendorStock(vendorID, productA, 5)
	f.store.SetVendorStock(vendorID, productB, 2)
	f.legacyCredit("legado-1", time.Now().AddDate(0, 1, 0))

	got, err := f.ledger.Transition(ctx, adminScope, "legado-1", entity.CreditStateCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.CreditStateCancelled, got.State)
	assert.Equal(t, 3, f.stock(t, productA))
	assert.Equal(t, 1, f.stock(t, productB))

	movs, err := f.store.Movements().ListByReference(ctx, entity.CreditReference("legado-1"))
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.NotEmpty(t, movs[0].Observation)

	_, err = f.ledger.Transition(ctx, adminScope, "legado-1", entity.CreditStateCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 3, f.stock(t, productA))
	movs, err = f.store.Movements().ListByReference(ctx, entity.CreditReference("legado-1"))
	require.NoError(t, err)
	assert.Len(t, movs, 2)
}

func TestTransition_AnularHeredadoSinStockFalla(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.SetVendorStock(vendorID, productA, 5)
	f.legacyCredit("legado-2", time.Now().AddDate(0, 1, 0))

	_, err := f.ledger.Transition(ctx, adminScope, "legado-2", entity.CreditStateCancelled)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.ledger.Get(ctx, "legado-2")
	require.NoError(t, err)
	assert.Equal(t, entity.CreditStateActive, got.State)
	assert.Equal(t, 5, f.stock(t, productA))
}

// ──────────────────────────────────────────────────────────────────────────────
// MarkOverdue y consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkOverdue(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	now := time.Now()
	f.legacyCredit("vencido", now.AddDate(0, 0, -1))
	f.legacyCredit("al-dia", now.AddDate(0, 1, 0))

	overdue, err := f.ledger.ListOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "vencido", overdue[0].ID)

	n, err := f.ledger.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.ledger.Get(ctx, "vencido")
	require.NoError(t, err)
	assert.Equal(t, entity.CreditStateOverdue, got.State)

	n, err = f.ledger.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)

	active, err := f.ledger.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "al-dia", active[0].ID)
}

func TestListByVendor(t *testing.T) {
	f := newFixture()
	c := f.issue(t)

	list, err := f.ledger.ListByVendor(context.Background(), vendorID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)

	_, err = f.ledger.Get(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
