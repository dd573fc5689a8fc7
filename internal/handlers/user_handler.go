package handlers

import (
	"errors"

	"github.com/forkcast/forkcast-backend/internal/dto"
	"github.com/forkcast/forkcast-backend/internal/middleware"
	"github.com/forkcast/forkcast-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.userService.Profile(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}
	return c.JSON(resp)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(resp)
}

func (h *UserHandler) AddFavorite(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.FavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	fav, err := h.userService.AddFavorite(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyFavorited) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(fav)
}

func (h *UserHandler) RemoveFavorite(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.userService.RemoveFavorite(userID, c.Params("place_id")); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Favorite not found",
			})
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"message": "Favorite removed"})
}

func (h *UserHandler) ListFavorites(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	favorites, total, err := h.userService.ListFavorites(userID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{"favorites": favorites, "total": total})
}

func (h *UserHandler) AddFriend(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.FriendRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.userService.AddFriend(userID, req.FriendID); err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyFriends):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		default:
			return badRequest(c, err.Error())
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Friend added"})
}

func (h *UserHandler) RemoveFriend(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	friendID, err := parseUUIDParam(c, "friend_id")
	if err != nil {
		return badRequest(c, "Invalid friend id")
	}

	if err := h.userService.RemoveFriend(userID, friendID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Friend not found",
			})
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"message": "Friend removed"})
}

func (h *UserHandler) ListFriends(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	friends, err := h.userService.ListFriends(userID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{"friends": friends})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}
