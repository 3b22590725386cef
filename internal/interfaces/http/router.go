package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Creditos-api/internal/application/credit"
	"github.com/jhoicas/Creditos-api/internal/application/inventory"
	"github.com/jhoicas/Creditos-api/internal/application/payment"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *credit.LedgerUseCase
	Allocator *payment.AllocatorUseCase
	Receipts  *payment.ReceiptUseCase
	Stock     *inventory.StockUseCase
	Vendors   repository.VendorRepository
	JWTSecret string
	Logger    zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Todas las rutas de /api requieren Bearer Token.
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Créditos
	creditHandler := NewCreditHandler(deps.Ledger, deps.Logger)
	paymentHandler := NewPaymentHandler(deps.Allocator, deps.Receipts, deps.Logger)
	credits := api.Group("/credits")
	credits.Post("/", creditHandler.Create)
	credits.Get("/", creditHandler.List)
	credits.Get("/:id", creditHandler.GetByID)
	credits.Patch("/:id/state", creditHandler.ChangeState)

	// Abonos
	credits.Post("/:id/payments", paymentHandler.Register)
	credits.Get("/:id/payments", paymentHandler.Summary)
	credits.Get("/:id/breakdown", paymentHandler.Breakdown)
	api.Get("/payments/:id/receipt", paymentHandler.Receipt)

	// Inventario de vendedores
	inventoryHandler := NewInventoryHandler(deps.Stock, deps.Logger)
	inv := api.Group("/inventory")
	inv.Post("/assignments", RequireRole(entity.RoleAdmin, entity.RoleSupervisor), inventoryHandler.Assign)
	inv.Post("/cash-sales", inventoryHandler.CashSale)
	inv.Get("/vendors/:id/stock", RequireVendorAccess("id", deps.Vendors), inventoryHandler.VendorStock)
	inv.Get("/movements", inventoryHandler.Movements)
}
