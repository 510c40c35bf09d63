package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/service"
	"github.com/campusconnect/campus-api/internal/utils"
)

// AssistantHandler exposes the guided helpdesk chat endpoint.
type AssistantHandler struct {
	assistant service.AssistantService
	logger    zerolog.Logger
}

// NewAssistantHandler constructs an assistant handler.
func NewAssistantHandler(assistant service.AssistantService, logger zerolog.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistant: assistant,
		logger:    logger.With().Str("component", "assistant_handler").Logger(),
	}
}

// Register wires the assistant routes.
func (h *AssistantHandler) Register(router fiber.Router) {
	router.Post("/chat", h.chat)
}

func (h *AssistantHandler) chat(c *fiber.Ctx) error {
	var payload dto.AssistantChatRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.assistant.Chat(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("assistant chat failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "assistant chat failed")
	}
	return utils.SendSuccess(c, "assistant reply", response)
}
