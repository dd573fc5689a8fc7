package handlers

import (
	"github.com/forkcast/forkcast-backend/internal/dto"
	"github.com/forkcast/forkcast-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AttestHandler struct {
	attestService *services.AttestService
}

func NewAttestHandler(attestService *services.AttestService) *AttestHandler {
	return &AttestHandler{attestService: attestService}
}

// Mint exchanges a device integrity payload for a short-lived attestation
// token. No user session required; the token proves the binary, not the user.
func (h *AttestHandler) Mint(c *fiber.Ctx) error {
	var req dto.AttestRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.attestService.Mint(&req)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(resp)
}
