package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Creditos-api/internal/application/credit"
	"github.com/jhoicas/Creditos-api/internal/application/dto"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/rs/zerolog"
)

// CreditHandler expone el ciclo de vida de los créditos (protegido).
type CreditHandler struct {
	uc  *credit.LedgerUseCase
	log zerolog.Logger
}

// NewCreditHandler construye el handler.
func NewCreditHandler(uc *credit.LedgerUseCase, log zerolog.Logger) *CreditHandler {
	return &CreditHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Emitir crédito
// @Description  Crea el crédito con sus productos y descuenta el inventario del vendedor en una sola transacción.
// @Tags         credits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCreditRequest  true  "cliente, vendedor, productos y plan de cuotas"
// @Success      201   {object}  dto.CreditResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/credits [post]
func (h *CreditHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCreditRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if !validID(in.ClientID, in.VendorID) {
		return badRequest(c, "VALIDATION", "client_id y vendor_id deben ser UUID")
	}
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return badRequest(c, "VALIDATION", "start_date debe tener formato YYYY-MM-DD")
	}
	due, err := time.Parse(dateLayout, in.DueDate)
	if err != nil {
		return badRequest(c, "VALIDATION", "due_date debe tener formato YYYY-MM-DD")
	}
	items := make([]credit.IssueItem, 0, len(in.Items))
	for _, it := range in.Items {
		if !validID(it.ProductID) {
			return badRequest(c, "VALIDATION", "product_id debe ser UUID")
		}
		items = append(items, credit.IssueItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}

	cr, err := h.uc.Issue(c.Context(), GetScope(c), credit.IssueInput{
		ClientID:         in.ClientID,
		VendorID:         in.VendorID,
		Items:            items,
		Installment:      in.Installment,
		Frequency:        in.Frequency,
		InstallmentCount: in.InstallmentCount,
		StartDate:        start,
		DueDate:          due,
		TotalAmount:      in.TotalAmount,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCreditResponse(cr))
}

// GetByID godoc
// @Summary      Obtener crédito
// @Tags         credits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del crédito"
// @Success      200  {object}  dto.CreditResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/credits/{id} [get]
func (h *CreditHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validID(id) {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	cr, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toCreditResponse(cr))
}

// ChangeState godoc
// @Summary      Cambiar estado del crédito
// @Description  ACTIVO→MOROSO, ACTIVO|MOROSO→CANCELADO. Cancelar un crédito sin movimientos descuenta el inventario pendiente.
// @Tags         credits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del crédito"
// @Param        body  body  dto.ChangeStateRequest  true  "nuevo estado"
// @Success      200   {object}  dto.CreditResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/credits/{id}/state [patch]
func (h *CreditHandler) ChangeState(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validID(id) {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.ChangeStateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	cr, err := h.uc.Transition(c.Context(), GetScope(c), id, in.State)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toCreditResponse(cr))
}

// List godoc
// @Summary      Listar créditos
// @Description  Un solo filtro por petición: client_id, vendor_id, estado=ACTIVO o vencidos=true.
// @Tags         credits
// @Security     Bearer
// @Produce      json
// @Param        client_id  query  string  false  "Cliente"
// @Param        vendor_id  query  string  false  "Vendedor"
// @Param        estado     query  string  false  "Solo ACTIVO"
// @Param        vencidos   query  bool    false  "Vencidos no cerrados"
// @Param        limit      query  int     false  "Tamaño de página (máx. 100)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.CreditListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/credits [get]
func (h *CreditHandler) List(c *fiber.Ctx) error {
	var q dto.CreditListQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "VALIDATION", "parámetros de consulta inválidos")
	}
	page := q.Page()

	var (
		credits []*entity.Credit
		err     error
	)
	ctx := c.Context()
	switch {
	case q.ClientID != "":
		if !validID(q.ClientID) {
			return badRequest(c, "VALIDATION", "client_id inválido")
		}
		credits, err = h.uc.ListByClient(ctx, q.ClientID)
	case q.VendorID != "":
		if !validID(q.VendorID) {
			return badRequest(c, "VALIDATION", "vendor_id inválido")
		}
		credits, err = h.uc.ListByVendor(ctx, q.VendorID)
	case q.Overdue:
		credits, err = h.uc.ListOverdue(ctx)
	case q.State == entity.CreditStateActive:
		credits, err = h.uc.ListActive(ctx)
	default:
		return badRequest(c, "VALIDATION", "indique client_id, vendor_id, estado=ACTIVO o vencidos=true")
	}
	if err != nil {
		return respondError(c, h.log, err)
	}

	from, to := page.Bounds(len(credits))
	out := dto.CreditListResponse{
		Items: make([]dto.CreditResponse, 0, to-from),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(credits)},
	}
	for _, cr := range credits[from:to] {
		out.Items = append(out.Items, toCreditResponse(cr))
	}
	return c.JSON(out)
}
