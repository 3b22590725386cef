package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Creditos-api/internal/application/dto"
	"github.com/jhoicas/Creditos-api/internal/application/inventory"
	"github.com/rs/zerolog"
)

// InventoryHandler maneja el inventario en manos de los vendedores (protegido).
type InventoryHandler struct {
	uc  *inventory.StockUseCase
	log zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// Assign godoc
// @Summary      Asignar mercancía de bodega a un vendedor
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignStockRequest  true  "vendor_id, product_id, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/assignments [post]
func (h *InventoryHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if !validID(in.VendorID, in.ProductID) {
		return badRequest(c, "VALIDATION", "vendor_id y product_id deben ser UUID")
	}
	m, err := h.uc.AssignToVendor(c.Context(), GetScope(c), inventory.AssignInput{
		VendorID:    in.VendorID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		Reference:   in.Reference,
		Observation: in.Observation,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(m))
}

// CashSale godoc
// @Summary      Registrar venta de contado
// @Description  Descuenta del inventario del vendedor todos los productos o ninguno.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CashSaleRequest  true  "vendedor, cliente opcional y productos"
// @Success      201   {object}  dto.CashSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/cash-sales [post]
func (h *InventoryHandler) CashSale(c *fiber.Ctx) error {
	var in dto.CashSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if !validID(in.VendorID) || (in.ClientID != "" && !validID(in.ClientID)) {
		return badRequest(c, "VALIDATION", "vendor_id y client_id deben ser UUID")
	}
	items := make([]inventory.CashSaleItem, 0, len(in.Items))
	for _, it := range in.Items {
		if !validID(it.ProductID) {
			return badRequest(c, "VALIDATION", "product_id debe ser UUID")
		}
		items = append(items, inventory.CashSaleItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	res, err := h.uc.RegisterCashSale(c.Context(), GetScope(c), inventory.CashSaleInput{
		VendorID:    in.VendorID,
		ClientID:    in.ClientID,
		Items:       items,
		Observation: in.Observation,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CashSaleResponse{
		Reference: res.Reference,
		Movements: toMovementResponses(res.Movements),
	})
}

// VendorStock godoc
// @Summary      Inventario de un vendedor
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del vendedor"
// @Success      200  {array}   dto.VendorStockResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/vendors/{id}/stock [get]
func (h *InventoryHandler) VendorStock(c *fiber.Ctx) error {
	rows, err := h.uc.VendorStock(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]dto.VendorStockResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.VendorStockResponse{ProductID: r.ProductID, Quantity: r.Quantity, UpdatedAt: r.UpdatedAt})
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Movimientos por referencia
// @Description  Ej.: CREDIT_{id} o CONTADO_{unix}_{vendedor}.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        reference  query  string  true  "Referencia del movimiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	ref := c.Query("reference")
	if ref == "" {
		return badRequest(c, "VALIDATION", "reference requerido")
	}
	ms, err := h.uc.MovementsByReference(c.Context(), ref)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(toMovementResponses(ms))
}
