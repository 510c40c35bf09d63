package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/service"
	"github.com/campusconnect/campus-api/internal/utils"
)

// SupportHandler exposes the support contact endpoint.
type SupportHandler struct {
	support service.SupportService
	logger  zerolog.Logger
}

// NewSupportHandler constructs a support handler.
func NewSupportHandler(support service.SupportService, logger zerolog.Logger) *SupportHandler {
	return &SupportHandler{
		support: support,
		logger:  logger.With().Str("component", "support_handler").Logger(),
	}
}

// Register wires the support routes.
func (h *SupportHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
}

func (h *SupportHandler) submit(c *fiber.Ctx) error {
	var payload dto.SupportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.support.Submit(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSupportDuplicate):
			return utils.SendError(c, fiber.StatusTooManyRequests, "a similar request was submitted recently")
		case errors.Is(err, service.ErrSupportDelivery):
			h.logger.Error().Err(err).Msg("support relay unavailable")
			return utils.SendError(c, fiber.StatusBadGateway, "support inbox is unreachable, please try again later")
		default:
			h.logger.Error().Err(err).Msg("failed to submit support request")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit support request")
		}
	}
	return utils.SendCreated(c, "support request received", response)
}
