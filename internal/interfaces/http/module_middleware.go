package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/luxy-checkout/internal/application/dto"
)

// featureChecker contrato mínimo para saber si una función opcional está configurada.
// Lo implementa *auth.AuthUseCase.
type featureChecker interface {
	Enabled() bool
}

// RequireEnabled responde 403 SUPERVISOR_DISABLED si no hay PIN/secreto configurados,
// antes de intentar validar cualquier token.
func RequireEnabled(checker featureChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !checker.Enabled() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "SUPERVISOR_DISABLED",
				Message: "el acceso de supervisor no está configurado en este kiosko",
			})
		}
		return c.Next()
	}
}
