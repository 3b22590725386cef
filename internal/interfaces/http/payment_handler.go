package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Creditos-api/internal/application/dto"
	"github.com/jhoicas/Creditos-api/internal/application/payment"
	"github.com/rs/zerolog"
)

// PaymentHandler expone el registro de abonos y sus consultas (protegido).
type PaymentHandler struct {
	allocator *payment.AllocatorUseCase
	receipts  *payment.ReceiptUseCase
	log       zerolog.Logger
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(allocator *payment.AllocatorUseCase, receipts *payment.ReceiptUseCase, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{allocator: allocator, receipts: receipts, log: log}
}

// Register godoc
// @Summary      Registrar abono
// @Description  Sin allocations el abono se reparte proporcionalmente al saldo pendiente de cada producto.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del crédito"
// @Param        body  body  dto.RegisterPaymentRequest  true  "monto, fecha, método y distribución opcional"
// @Success      201   {object}  dto.RegisterPaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/credits/{id}/payments [post]
func (h *PaymentHandler) Register(c *fiber.Ctx) error {
	creditID := c.Params("id")
	if !validID(creditID) {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	var in dto.RegisterPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	date, ok := parsePaymentDate(in.PaymentDate)
	if !ok {
		return badRequest(c, "VALIDATION", "payment_date debe ser YYYY-MM-DD o RFC3339")
	}
	manual := make([]payment.ManualAllocation, 0, len(in.Allocations))
	for _, a := range in.Allocations {
		if !validID(a.ProductID) {
			return badRequest(c, "VALIDATION", "product_id debe ser UUID")
		}
		manual = append(manual, payment.ManualAllocation{ProductID: a.ProductID, Amount: a.Amount})
	}

	res, err := h.allocator.Register(c.Context(), GetScope(c), payment.RegisterInput{
		CreditID:    creditID,
		Amount:      in.Amount,
		PaymentDate: date,
		Method:      in.Method,
		Manual:      manual,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterPaymentResponse{
		Payment:     toPaymentResponse(res.Payment),
		Balance:     res.Credit.Balance,
		CreditState: res.Credit.State,
	})
}

// Summary godoc
// @Summary      Historial de abonos del crédito
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del crédito"
// @Success      200  {object}  dto.PaymentSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/credits/{id}/payments [get]
func (h *PaymentHandler) Summary(c *fiber.Ctx) error {
	creditID := c.Params("id")
	if !validID(creditID) {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	s, err := h.allocator.Derive(c.Context(), creditID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toSummaryResponse(s))
}

// Breakdown godoc
// @Summary      Saldo pendiente por producto
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del crédito"
// @Success      200  {array}   dto.ItemBreakdownResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/credits/{id}/breakdown [get]
func (h *PaymentHandler) Breakdown(c *fiber.Ctx) error {
	creditID := c.Params("id")
	if !validID(creditID) {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	items, err := h.allocator.Breakdown(c.Context(), creditID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]dto.ItemBreakdownResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ItemBreakdownResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
			Allocated: it.Allocated,
			Pending:   it.Pending,
		})
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante de pago (PDF)
// @Tags         payments
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del abono"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/receipt [get]
func (h *PaymentHandler) Receipt(c *fiber.Ctx) error {
	paymentID := c.Params("id")
	if !validID(paymentID) {
		return badRequest(c, "VALIDATION", "id inválido")
	}
	pdf, filename, err := h.receipts.Receipt(c.Context(), paymentID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// parsePaymentDate acepta fecha simple o RFC3339; vacío devuelve cero (el caso de uso usa "ahora").
func parsePaymentDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, err == nil
}
