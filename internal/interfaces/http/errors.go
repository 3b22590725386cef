package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/Creditos-api/internal/application/dto"
	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/rs/zerolog"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Orden relevante: el primer errors.Is que coincide gana.
var domainErrors = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrCreditClosed, fiber.StatusConflict, "CREDIT_CLOSED"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrExceedsBalance, fiber.StatusUnprocessableEntity, "EXCEEDS_BALANCE"},
	{domain.ErrUnknownProduct, fiber.StatusUnprocessableEntity, "UNKNOWN_PRODUCT"},
	{domain.ErrAllocationMismatch, fiber.StatusUnprocessableEntity, "ALLOCATION_MISMATCH"},
	{domain.ErrOverAllocated, fiber.StatusUnprocessableEntity, "OVER_ALLOCATED"},
	{domain.ErrNothingPending, fiber.StatusUnprocessableEntity, "NOTHING_PENDING"},
}

// respondError traduce un error de caso de uso a status HTTP + dto.ErrorResponse.
// Los errores no tipificados se registran y se responden como 500 sin detalle interno.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	for _, m := range domainErrors {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("ruta", c.Path()).Str("metodo", c.Method()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return badRequest(c, "INVALID_BODY", "cuerpo inválido")
}

// validID rechaza ids que no son UUID antes de que lleguen a columnas uuid de PostgreSQL.
func validID(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}
