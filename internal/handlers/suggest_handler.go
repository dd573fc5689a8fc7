package handlers

import (
	"github.com/forkcast/forkcast-backend/internal/dto"
	"github.com/forkcast/forkcast-backend/internal/middleware"
	"github.com/forkcast/forkcast-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SuggestHandler struct {
	suggestService *services.SuggestService
}

func NewSuggestHandler(suggestService *services.SuggestService) *SuggestHandler {
	return &SuggestHandler{suggestService: suggestService}
}

func (h *SuggestHandler) Suggest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var query dto.PreferenceQuery
	if err := c.BodyParser(&query); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.suggestService.Suggest(c.Context(), userID, &query)
	if err != nil {
		if err.Error() == "location is required" {
			return badRequest(c, err.Error())
		}
		return upstreamError(c, err)
	}
	return c.JSON(resp)
}

func (h *SuggestHandler) History(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	rounds, total, err := h.suggestService.History(userID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{"suggestions": rounds, "total": total})
}
