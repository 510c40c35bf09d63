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

// OpportunityHandler exposes the opportunity board and application surface.
type OpportunityHandler struct {
	opportunities service.OpportunityService
	seed          service.SeedService
	logger        zerolog.Logger
}

// NewOpportunityHandler constructs an opportunity handler.
func NewOpportunityHandler(opportunities service.OpportunityService, seed service.SeedService, logger zerolog.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		opportunities: opportunities,
		seed:          seed,
		logger:        logger.With().Str("component", "opportunity_handler").Logger(),
	}
}

// RegisterPublic wires the routes that do not need a session.
func (h *OpportunityHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.list)
}

// RegisterProtected wires the authenticated routes. The status and seed
// routes are additionally role-gated by the router.
func (h *OpportunityHandler) RegisterProtected(router fiber.Router) {
	router.Post("", h.create)
	router.Get("/recommended", h.listRecommended)
	router.Post("/:id/apply", h.apply)
	router.Get("/applications", h.listApplications)
	router.Patch("/:id/application", h.updateApplication)
}

func (h *OpportunityHandler) sendOpportunityError(c *fiber.Ctx, err error, fallback string) error {
	var parseErr *time.ParseError
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &parseErr):
		return utils.SendError(c, fiber.StatusBadRequest, "dates must be in RFC 3339 format")
	case errors.Is(err, service.ErrOpportunityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "opportunity not found")
	case errors.Is(err, service.ErrAlreadyApplied):
		return utils.SendError(c, fiber.StatusConflict, "you have already applied to this opportunity")
	case errors.Is(err, service.ErrOpportunityClosed):
		return utils.SendError(c, fiber.StatusConflict, "this opportunity is closed")
	case errors.Is(err, service.ErrApplicationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "application not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	default:
		h.logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}

func (h *OpportunityHandler) list(c *fiber.Ctx) error {
	opportunities, err := h.opportunities.List(c.Context())
	if err != nil {
		return h.sendOpportunityError(c, err, "failed to list opportunities")
	}
	return utils.SendSuccess(c, "opportunities", opportunities)
}

func (h *OpportunityHandler) create(c *fiber.Ctx) error {
	var payload dto.OpportunityCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	opportunity, err := h.opportunities.Create(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.sendOpportunityError(c, err, "failed to create opportunity")
	}
	return utils.SendCreated(c, "opportunity created", opportunity)
}

func (h *OpportunityHandler) listRecommended(c *fiber.Ctx) error {
	recommended, err := h.opportunities.ListRecommended(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.sendOpportunityError(c, err, "failed to list recommendations")
	}
	return utils.SendSuccess(c, "recommended opportunities", recommended)
}

func (h *OpportunityHandler) apply(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid opportunity id")
	}

	opportunity, err := h.opportunities.Apply(c.Context(), id, userIDFromContext(c))
	if err != nil {
		return h.sendOpportunityError(c, err, "failed to apply")
	}
	return utils.SendSuccess(c, "application submitted", opportunity)
}

// UpdateStatus is registered by the router behind a recruiter gate.
func (h *OpportunityHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid opportunity id")
	}

	var payload dto.OpportunityStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	opportunity, err := h.opportunities.UpdateStatus(c.Context(), id, userIDFromContext(c), payload)
	if err != nil {
		return h.sendOpportunityError(c, err, "failed to update status")
	}
	return utils.SendSuccess(c, "status updated", opportunity)
}

func (h *OpportunityHandler) listApplications(c *fiber.Ctx) error {
	applications, err := h.opportunities.ListApplications(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.sendOpportunityError(c, err, "failed to list applications")
	}
	return utils.SendSuccess(c, "applications", applications)
}

func (h *OpportunityHandler) updateApplication(c *fiber.Ctx) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid opportunity id")
	}

	var payload dto.ApplicationUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	application, err := h.opportunities.UpdateApplication(c.Context(), id, userIDFromContext(c), payload)
	if err != nil {
		return h.sendOpportunityError(c, err, "failed to update application")
	}
	return utils.SendSuccess(c, "application updated", application)
}

// Seed is registered by the router behind an admin gate.
func (h *OpportunityHandler) Seed(c *fiber.Ctx) error {
	count, err := h.seed.SeedOpportunities(c.Context())
	if err != nil {
		if errors.Is(err, service.ErrAlreadySeeded) {
			return utils.SendError(c, fiber.StatusConflict, "opportunities already seeded")
		}
		h.logger.Error().Err(err).Msg("failed to seed opportunities")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to seed opportunities")
	}
	return utils.SendCreated(c, "opportunities seeded", fiber.Map{"count": count})
}
