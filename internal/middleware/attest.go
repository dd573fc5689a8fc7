package middleware

import (
	"errors"

	"github.com/forkcast/forkcast-backend/internal/dto"
	"github.com/forkcast/forkcast-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AttestRequired rejects requests without a valid X-Attestation-Token.
// Applied to the suggestion routes, which are the expensive ones to abuse.
func AttestRequired(attest *services.AttestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		device, err := attest.Verify(c.Get("X-Attestation-Token"))
		if err != nil {
			msg := "Attestation required"
			if errors.Is(err, services.ErrAttestExpired) {
				msg = "Attestation token expired"
			}
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Message: msg,
			})
		}
		c.Locals("device_id", device)
		return c.Next()
	}
}
