package handlers

import (
	"errors"

	"github.com/forkcast/forkcast-backend/internal/dto"
	"github.com/forkcast/forkcast-backend/internal/services"
	"github.com/forkcast/forkcast-backend/internal/upstream"
	"github.com/gofiber/fiber/v2"
)

type PlacesHandler struct {
	placesService *services.PlacesService
}

func NewPlacesHandler(placesService *services.PlacesService) *PlacesHandler {
	return &PlacesHandler{placesService: placesService}
}

func (h *PlacesHandler) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return badRequest(c, "query is required")
	}

	params := upstream.SearchParams{
		Lat:    c.QueryFloat("lat"),
		Lng:    c.QueryFloat("lng"),
		Radius: c.QueryInt("radius"),
		Type:   c.Query("type"),
	}

	places, err := h.placesService.Search(c.Context(), query, params)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(fiber.Map{"results": places})
}

func (h *PlacesHandler) Details(c *fiber.Ctx) error {
	details, err := h.placesService.Details(c.Context(), c.Params("place_id"))
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(details)
}

func (h *PlacesHandler) Directions(c *fiber.Ctx) error {
	origin := c.Query("origin")
	destination := c.Query("destination")
	if origin == "" || destination == "" {
		return badRequest(c, "origin and destination are required")
	}

	route, err := h.placesService.Directions(c.Context(), origin, destination, c.Query("mode", "driving"))
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(route)
}

// upstreamError maps provider failures onto responses the mobile client can
// act on: credential problems become 502 (the user can't fix our provider
// auth), decode/transport problems too; only our own bad input is a 400.
func upstreamError(c *fiber.Ctx, err error) error {
	var statusErr *upstream.StatusError
	switch {
	case errors.Is(err, upstream.ErrAuthenticationRequired),
		errors.Is(err, upstream.ErrAttestationFailed):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Provider rejected our credentials",
		})
	case errors.As(err, &statusErr):
		if statusErr.Code == fiber.StatusNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Not found",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Provider error",
		})
	default:
		var decodeErr *upstream.DecodeError
		if errors.As(err, &decodeErr) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: "Provider returned an unexpected response",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Provider unavailable",
		})
	}
}
