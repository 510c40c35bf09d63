package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/service"
	"github.com/campusconnect/campus-api/internal/utils"
)

// ClubHandler exposes the club directory.
type ClubHandler struct {
	clubs  service.ClubService
	logger zerolog.Logger
}

// NewClubHandler constructs a club handler.
func NewClubHandler(clubs service.ClubService, logger zerolog.Logger) *ClubHandler {
	return &ClubHandler{
		clubs:  clubs,
		logger: logger.With().Str("component", "club_handler").Logger(),
	}
}

// RegisterPublic wires the read-only club routes.
func (h *ClubHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterProtected wires the authenticated club routes.
func (h *ClubHandler) RegisterProtected(router fiber.Router) {
	router.Patch("/:id", h.update)
}

func (h *ClubHandler) list(c *fiber.Ctx) error {
	clubs, err := h.clubs.List(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list clubs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list clubs")
	}
	return utils.SendSuccess(c, "clubs", clubs)
}

func (h *ClubHandler) get(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid club id")
	}

	club, err := h.clubs.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClubNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "club not found")
		}
		h.logger.Error().Err(err).Msg("failed to load club")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load club")
	}
	return utils.SendSuccess(c, "club", club)
}

func (h *ClubHandler) update(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid club id")
	}

	var payload dto.ClubUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	club, err := h.clubs.Update(c.Context(), id, userIDFromContext(c), userRoleFromContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClubNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "club not found")
		case errors.Is(err, service.ErrNotCoordinator):
			return utils.SendError(c, fiber.StatusForbidden, "only the club coordinator can update this club")
		default:
			h.logger.Error().Err(err).Msg("failed to update club")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update club")
		}
	}
	return utils.SendSuccess(c, "club updated", club)
}
