package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/Creditos-api/internal/application/dto"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
)

// vendorLookup es el contrato mínimo que necesita el middleware para resolver al vendedor.
// Lo implementa cualquier repository.VendorRepository.
type vendorLookup interface {
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
}

// RequireVendorAccess verifica que el llamador pueda consultar al vendedor del parámetro :param.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - admin y supervisor pasan siempre que el vendedor exista.
//   - un vendedor solo accede a su propio registro (vendor.UserID == user_id del token).
//   - 404 si el vendedor no existe, 503 si falla la consulta.
func RequireVendorAccess(param string, vendors vendorLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vendorID := c.Params(param)
		if _, err := uuid.Parse(vendorID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de vendedor inválido"})
		}
		v, err := vendors.GetByID(c.Context(), vendorID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "VENDOR_CHECK_FAILED",
				Message: "no se pudo verificar el vendedor, intente más tarde",
			})
		}
		if v == nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "vendedor no encontrado"})
		}
		if !GetScope(c).Privileged() && v.UserID != GetUserID(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "solo puede consultar su propio inventario",
			})
		}
		return c.Next()
	}
}
