package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/service"
	"github.com/campusconnect/campus-api/internal/utils"
)

// EventHandler exposes the campus event calendar.
type EventHandler struct {
	events service.EventService
	logger zerolog.Logger
}

// NewEventHandler constructs an event handler.
func NewEventHandler(events service.EventService, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		events: events,
		logger: logger.With().Str("component", "event_handler").Logger(),
	}
}

// RegisterPublic wires the read-only event routes.
func (h *EventHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.list)
}

// RegisterProtected wires the authenticated event routes. Creation is
// role-gated by the router.
func (h *EventHandler) RegisterProtected(router fiber.Router) {
	router.Post("", h.create)
}

func (h *EventHandler) list(c *fiber.Ctx) error {
	events, err := h.events.List(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list events")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list events")
	}
	return utils.SendSuccess(c, "events", events)
}

func (h *EventHandler) create(c *fiber.Ctx) error {
	var payload dto.EventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	event, err := h.events.Create(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		var parseErr *time.ParseError
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.As(err, &parseErr):
			return utils.SendError(c, fiber.StatusBadRequest, "date must be in RFC 3339 format")
		default:
			h.logger.Error().Err(err).Msg("failed to create event")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create event")
		}
	}
	return utils.SendCreated(c, "event created", event)
}
