package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/luxy-checkout/internal/application/dto"
	"github.com/jhoicas/luxy-checkout/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrMissingSignature):
		status, code = fiber.StatusUnprocessableEntity, "MISSING_SIGNATURE"
	case errors.Is(err, domain.ErrInvalidSignature):
		status, code = fiber.StatusUnprocessableEntity, "INVALID_SIGNATURE"
	case errors.Is(err, domain.ErrNoEmployee):
		status, code = fiber.StatusUnprocessableEntity, "NO_EMPLOYEE"
	case errors.Is(err, domain.ErrEmptyCart):
		status, code = fiber.StatusUnprocessableEntity, "EMPTY_CART"
	case errors.Is(err, domain.ErrInvalidQuantity):
		status, code = fiber.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, domain.ErrUnknownItem):
		status, code = fiber.StatusNotFound, "UNKNOWN_ITEM"
	case errors.Is(err, domain.ErrUnknownEmployee):
		status, code = fiber.StatusNotFound, "UNKNOWN_EMPLOYEE"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrTransport):
		status, code = fiber.StatusBadGateway, "BACKEND_UNAVAILABLE"
	case errors.Is(err, domain.ErrSchema):
		status, code = fiber.StatusBadGateway, "INVALID_REFERENCE_DATA"
	case errors.Is(err, domain.ErrPersistence):
		status, code = fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
