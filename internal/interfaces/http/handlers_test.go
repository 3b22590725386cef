package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Creditos-api/internal/application/credit"
	"github.com/jhoicas/Creditos-api/internal/application/dto"
	"github.com/jhoicas/Creditos-api/internal/application/inventory"
	"github.com/jhoicas/Creditos-api/internal/application/payment"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/infrastructure/memory"
	"github.com/jhoicas/Creditos-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Creditos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Creditos-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	clientID     = "10000000-0000-0000-0000-000000000001"
	vendorID     = "20000000-0000-0000-0000-000000000001"
	otherVendor  = "20000000-0000-0000-0000-000000000002"
	productA     = "30000000-0000-0000-0000-00000000000a"
	productB     = "30000000-0000-0000-0000-00000000000b"
	vendorUserID = "40000000-0000-0000-0000-000000000001"
	adminUserID  = "40000000-0000-0000-0000-0000000000ad"
	routeID      = "ruta-norte"
)

type testAPI struct {
	app   *fiber.App
	store *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	s := memory.NewStore()
	s.AddClient(entity.Client{ID: clientID, Name: "Ana", RouteID: routeID, Active: true})
	s.AddVendor(entity.Vendor{ID: vendorID, UserID: vendorUserID, Name: "Pedro", Active: true})
	s.AddVendor(entity.Vendor{ID: otherVendor, UserID: "otro-usuario", Name: "Luis", Active: true})
	s.AddProduct(entity.Product{ID: productA, Name: "Olla", Price: decimal.NewFromInt(10), Active: true})
	s.AddProduct(entity.Product{ID: productB, Name: "Sartén", Price: decimal.NewFromInt(30), Active: true})
	s.SetVendorStock(vendorID, productA, 5)
	s.SetVendorStock(vendorID, productB, 2)

	log := zerolog.Nop()
	coord := inventory.NewCoordinator(inventory.NewMovementTypeRegistry(log), log)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:    credit.NewLedgerUseCase(s, s.Credits(), s.Clients(), s.Vendors(), s.Products(), coord, log),
		Allocator: payment.NewAllocatorUseCase(s, s.Credits(), s.Payments(), s.Clients(), log),
		Receipts:  payment.NewReceiptUseCase(s.Payments(), s.Credits(), s.Clients(), s.Products(), pdf.NewReceiptGenerator("Créditos Test")),
		Stock:     inventory.NewStockUseCase(s, coord, s.Vendors(), s.Products(), s.Clients(), s.VendorStock(), s.Movements(), log),
		Vendors:   s.Vendors(),
		JWTSecret: testJWTSecret,
		Logger:    log,
	})
	return &testAPI{app: app, store: s}
}

func adminToken(t *testing.T) string {
	return bearer(t, pkgjwt.Identity{UserID: adminUserID, Role: entity.RoleAdmin})
}

func vendorToken(t *testing.T, routes ...string) string {
	return bearer(t, pkgjwt.Identity{UserID: vendorUserID, Role: entity.RoleVendedor, RouteIDs: routes})
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func errorCode(t *testing.T, resp *http.Response) string {
	return decode[dto.ErrorResponse](t, resp).Code
}

func creditBody() map[string]any {
	return map[string]any{
		"client_id": clientID,
		"vendor_id": vendorID,
		"items": []map[string]any{
			{"product_id": productA, "quantity": 2, "unit_price": 10},
			{"product_id": productB, "quantity": 1, "unit_price": 30},
		},
		"installment":       5,
		"frequency":         "SEMANAL",
		"installment_count": 10,
		"start_date":        "2026-01-05",
		"due_date":          "2026-03-16",
	}
}

func (a *testAPI) issue(t *testing.T) dto.CreditResponse {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/credits", adminToken(t), creditBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.CreditResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Créditos
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_SinToken(t *testing.T) {
	a := newTestAPI(t)
	resp := a.do(t, http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCredits_SinToken_Retorna401(t *testing.T) {
	a := newTestAPI(t)
	resp := a.do(t, http.MethodGet, "/api/credits?vencidos=true", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateCredit_EmiteYDescuentaInventario(t *testing.T) {
	a := newTestAPI(t)
	cr := a.issue(t)

	assert.True(t, cr.TotalAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, cr.Balance.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, entity.CreditStateActive, cr.State)
	assert.Equal(t, "2026-03-16", cr.DueDate)
	assert.Len(t, cr.Items, 2)

	resp := a.do(t, http.MethodGet, "/api/inventory/movements?reference=CREDIT_"+cr.ID, adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	movs := decode[[]dto.MovementResponse](t, resp)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, "VENDEDOR_"+vendorID, m.Origin)
		assert.Equal(t, "CLIENTE_"+clientID, m.Destination)
	}

	resp = a.do(t, http.MethodGet, "/api/credits/"+cr.ID, adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.CreditResponse](t, resp)
	assert.Equal(t, cr.ID, got.ID)
	assert.Len(t, got.Items, 2)
}

func TestCreateCredit_Errores(t *testing.T) {
	cases := []struct {
		name   string
		token  func(*testing.T) string
		mutate func(map[string]any)
		status int
		code   string
	}{
		{"client_id no UUID", adminToken, func(b map[string]any) { b["client_id"] = "abc" }, http.StatusBadRequest, "VALIDATION"},
		{"fecha mal formada", adminToken, func(b map[string]any) { b["start_date"] = "05/01/2026" }, http.StatusBadRequest, "VALIDATION"},
		{"frecuencia inválida", adminToken, func(b map[string]any) { b["frequency"] = "ANUAL" }, http.StatusBadRequest, "VALIDATION"},
		{"cliente inexistente", adminToken, func(b map[string]any) { b["client_id"] = "10000000-0000-0000-0000-0000000000ff" }, http.StatusNotFound, "NOT_FOUND"},
		{"stock insuficiente", adminToken, func(b map[string]any) {
			b["items"] = []map[string]any{{"product_id": productB, "quantity": 3, "unit_price": 30}}
		}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"vendedor de otra ruta", func(t *testing.T) string { return vendorToken(t, "ruta-sur") }, func(map[string]any) {}, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAPI(t)
			body := creditBody()
			tc.mutate(body)
			resp := a.do(t, http.MethodPost, "/api/credits", tc.token(t), body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
		})
	}
}

func TestCreateCredit_VendedorDeLaRuta(t *testing.T) {
	a := newTestAPI(t)
	resp := a.do(t, http.MethodPost, "/api/credits", vendorToken(t, routeID), creditBody())
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestGetCredit_IDInvalidoYInexistente(t *testing.T) {
	a := newTestAPI(t)
	resp := a.do(t, http.MethodGet, "/api/credits/no-es-uuid", adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))

	resp = a.do(t, http.MethodGet, "/api/credits/50000000-0000-0000-0000-000000000000", adminToken(t), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestChangeState_TransicionesPorHTTP(t *testing.T) {
	a := newTestAPI(t)
	cr := a.issue(t)
	path := "/api/credits/" + cr.ID + "/state"

	resp := a.do(t, http.MethodPatch, path, adminToken(t), map[string]string{"state": "PAGADO"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, resp))

	resp = a.do(t, http.MethodPatch, path, adminToken(t), map[string]string{"state": "MOROSO"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.CreditStateOverdue, decode[dto.CreditResponse](t, resp).State)

	resp = a.do(t, http.MethodPatch, path, adminToken(t), map[string]string{"state": "CANCELADO"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.CreditStateCancelled, decode[dto.CreditResponse](t, resp).State)
}

func TestListCredits_Filtros(t *testing.T) {
	a := newTestAPI(t)
	a.issue(t)

	resp := a.do(t, http.MethodGet, "/api/credits", adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/credits?client_id="+clientID, adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.CreditListResponse](t, resp)
	assert.Equal(t, 1, page.Page.Total)
	assert.Len(t, page.Items, 1)

	resp = a.do(t, http.MethodGet, "/api/credits?estado=ACTIVO&limit=1&offset=5", adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = decode[dto.CreditListResponse](t, resp)
	assert.Equal(t, 1, page.Page.Total)
	assert.Empty(t, page.Items)
}

// ──────────────────────────────────────────────────────────────────────────────
// Abonos
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterPayment_ProporcionalYConsultas(t *testing.T) {
	a := newTestAPI(t)
	cr := a.issue(t)

	resp := a.do(t, http.MethodPost, "/api/credits/"+cr.ID+"/payments", adminToken(t), map[string]any{"amount": 20})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reg := decode[dto.RegisterPaymentResponse](t, resp)
	assert.True(t, reg.Balance.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, entity.CreditStateActive, reg.CreditState)
	assert.Equal(t, entity.PaymentMethodCash, reg.Payment.Method)
	require.Len(t, reg.Payment.Allocations, 2)

	resp = a.do(t, http.MethodGet, "/api/credits/"+cr.ID+"/payments", adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[dto.PaymentSummaryResponse](t, resp)
	assert.Len(t, sum.Payments, 1)
	assert.True(t, sum.TotalPaid.Equal(decimal.NewFromInt(20)))
	assert.True(t, sum.Remaining.Equal(decimal.NewFromInt(30)))
	assert.True(t, sum.PercentPaid.Equal(decimal.NewFromInt(40)))

	resp = a.do(t, http.MethodGet, "/api/credits/"+cr.ID+"/breakdown", adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[[]dto.ItemBreakdownResponse](t, resp)
	require.Len(t, items, 2)
	pending := decimal.Zero
	for _, it := range items {
		pending = pending.Add(it.Pending)
	}
	assert.True(t, pending.Equal(decimal.NewFromInt(30)))

	resp = a.do(t, http.MethodGet, "/api/payments/"+reg.Payment.ID+"/receipt", adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "comprobante-"+reg.Payment.ID)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestRegisterPayment_Errores(t *testing.T) {
	a := newTestAPI(t)
	cr := a.issue(t)
	path := "/api/credits/" + cr.ID + "/payments"

	resp := a.do(t, http.MethodPost, path, adminToken(t), map[string]any{"amount": 60})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "EXCEEDS_BALANCE", errorCode(t, resp))

	resp = a.do(t, http.MethodPost, path, adminToken(t), map[string]any{
		"amount":      10,
		"allocations": []map[string]any{{"product_id": productA, "amount": 4}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "ALLOCATION_MISMATCH", errorCode(t, resp))

	resp = a.do(t, http.MethodPost, path, adminToken(t), map[string]any{"amount": 10, "payment_date": "ayer"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodPost, path, vendorToken(t, "ruta-sur"), map[string]any{"amount": 10})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/payments/60000000-0000-0000-0000-000000000000/receipt", adminToken(t), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterPayment_CierraCreditoYRechazaSiguiente(t *testing.T) {
	a := newTestAPI(t)
	cr := a.issue(t)
	path := "/api/credits/" + cr.ID + "/payments"

	resp := a.do(t, http.MethodPost, path, adminToken(t), map[string]any{"amount": 50, "method": "TRANSFERENCIA"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reg := decode[dto.RegisterPaymentResponse](t, resp)
	assert.Equal(t, entity.CreditStatePaid, reg.CreditState)
	assert.True(t, reg.Balance.IsZero())

	resp = a.do(t, http.MethodPost, path, adminToken(t), map[string]any{"amount": 1})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CREDIT_CLOSED", errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestAssign_SoloRolesPrivilegiados(t *testing.T) {
	a := newTestAPI(t)
	body := map[string]any{"vendor_id": vendorID, "product_id": productA, "quantity": 4}

	resp := a.do(t, http.MethodPost, "/api/inventory/assignments", vendorToken(t, routeID), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodPost, "/api/inventory/assignments", adminToken(t), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	m := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "BODEGA", m.Origin)
	assert.Equal(t, "VENDEDOR_"+vendorID, m.Destination)

	resp = a.do(t, http.MethodGet, "/api/inventory/vendors/"+vendorID+"/stock", adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := decode[[]dto.VendorStockResponse](t, resp)
	require.Len(t, rows, 2)
	assert.Equal(t, productA, rows[0].ProductID)
	assert.Equal(t, 9, rows[0].Quantity)
}

func TestCashSale_VendedorPropio(t *testing.T) {
	a := newTestAPI(t)
	body := map[string]any{
		"vendor_id": vendorID,
		"items":     []map[string]any{{"product_id": productB, "quantity": 2}},
	}
	resp := a.do(t, http.MethodPost, "/api/inventory/cash-sales", vendorToken(t, routeID), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decode[dto.CashSaleResponse](t, resp)
	assert.Contains(t, sale.Reference, "CONTADO_")
	require.Len(t, sale.Movements, 1)
	assert.Equal(t, "VENTA_CONTADO", sale.Movements[0].Destination)

	resp = a.do(t, http.MethodPost, "/api/inventory/cash-sales", vendorToken(t, routeID), body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, resp))
}

func TestVendorStock_AccesoPorVendedor(t *testing.T) {
	a := newTestAPI(t)

	resp := a.do(t, http.MethodGet, "/api/inventory/vendors/"+vendorID+"/stock", vendorToken(t), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/inventory/vendors/"+otherVendor+"/stock", vendorToken(t), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/inventory/vendors/20000000-0000-0000-0000-0000000000ff/stock", adminToken(t), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/inventory/vendors/xyz/stock", adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestMovements_RequiereReferencia(t *testing.T) {
	a := newTestAPI(t)
	resp := a.do(t, http.MethodGet, "/api/inventory/movements", adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}
