package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/middleware"
	"github.com/campusconnect/campus-api/internal/service"
	"github.com/campusconnect/campus-api/internal/utils"
)

// RealtimeHandler wires the websocket upgrade and the publishing endpoints.
type RealtimeHandler struct {
	realtime service.RealtimeService
	logger   zerolog.Logger
}

// NewRealtimeHandler creates a realtime handler instance.
func NewRealtimeHandler(realtime service.RealtimeService, logger zerolog.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		realtime: realtime,
		logger:   logger.With().Str("component", "realtime_handler").Logger(),
	}
}

// Register binds realtime routes under the provided router group. The
// announce and notify routes are role-gated by the router.
func (h *RealtimeHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *RealtimeHandler) handleConnection(conn *websocket.Conn) {
	userID := websocketUserID(conn)
	if userID == 0 {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusUnauthorized, "user id missing"))
		_ = conn.Close()
		return
	}

	role := fmt.Sprint(conn.Locals("user_role"))
	correlation := fmt.Sprint(conn.Locals("correlation_id"))
	baseCtx, _ := conn.Locals("request_ctx").(context.Context)

	h.realtime.ServeConnection(conn, service.RealtimeConnectionOptions{
		UserID:        userID,
		Role:          role,
		CorrelationID: correlation,
		Context:       baseCtx,
	})
}

func websocketUserID(conn *websocket.Conn) uint {
	switch value := conn.Locals("user_id").(type) {
	case uint:
		return value
	case int:
		if value > 0 {
			return uint(value)
		}
	case float64:
		if value > 0 {
			return uint(value)
		}
	}
	return 0
}

// Announce is registered by the router behind an admin gate.
func (h *RealtimeHandler) Announce(c *fiber.Ctx) error {
	var payload dto.AnnouncementRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	message, err := h.realtime.Announce(c.Context(), payload)
	if err != nil {
		return h.sendRealtimeError(c, err, "failed to publish announcement")
	}
	return utils.SendCreated(c, "announcement published", message)
}

// NotifyUser is registered by the router behind an admin gate.
func (h *RealtimeHandler) NotifyUser(c *fiber.Ctx) error {
	var payload dto.NotifyUserRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	message, err := h.realtime.NotifyUser(c.Context(), payload)
	if err != nil {
		return h.sendRealtimeError(c, err, "failed to publish notification")
	}
	return utils.SendCreated(c, "notification published", message)
}

func (h *RealtimeHandler) sendRealtimeError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmptyMessage):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
