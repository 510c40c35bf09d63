package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/middleware"
	"github.com/campusconnect/campus-api/internal/service"
	"github.com/campusconnect/campus-api/internal/utils"
)

// UserHandler handles the authenticated account surface.
type UserHandler struct {
	users    service.UserService
	activity service.ActivityService
	logger   zerolog.Logger
}

// NewUserHandler constructs a user handler.
func NewUserHandler(users service.UserService, activity service.ActivityService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		activity: activity,
		logger:   logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register wires the /users/me routes.
func (h *UserHandler) Register(router fiber.Router) {
	me := router.Group("/me")
	me.Get("", h.profile)
	me.Patch("", h.updateProfile)
	me.Put("/skills", h.updateSkills)
	me.Patch("/settings", h.updateSettings)
	me.Post("/password", h.changePassword)
	me.Delete("", h.deleteAccount)
	me.Post("/photo", h.uploadPhoto)
	me.Post("/email/verify", h.verifyEmail)
	me.Post("/phone/otp", h.sendPhoneOTP)
	me.Post("/phone/verify", h.verifyPhoneOTP)
	me.Get("/activity", h.listActivity)
}

func (h *UserHandler) sendUserError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrWrongPassword):
		return utils.SendError(c, fiber.StatusBadRequest, "current password is incorrect")
	case errors.Is(err, service.ErrInvalidOTP):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid or expired verification code")
	case errors.Is(err, service.ErrOTPUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "phone verification is not available")
	case errors.Is(err, service.ErrPhotoTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "photo exceeds the size limit")
	case errors.Is(err, service.ErrPhotoTypeNotAllowed):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, "photo must be an image")
	default:
		h.logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}

func (h *UserHandler) profile(c *fiber.Ctx) error {
	profile, err := h.users.GetProfile(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.sendUserError(c, err, "failed to load profile")
	}
	return utils.SendSuccess(c, "profile", profile)
}

func (h *UserHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.UpdateProfileRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := h.users.UpdateProfile(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.sendUserError(c, err, "failed to update profile")
	}
	return utils.SendSuccess(c, "profile updated", profile)
}

func (h *UserHandler) updateSkills(c *fiber.Ctx) error {
	var payload dto.UpdateSkillsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := h.users.UpdateSkills(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.sendUserError(c, err, "failed to update skills")
	}
	return utils.SendSuccess(c, "skills updated", profile)
}

func (h *UserHandler) updateSettings(c *fiber.Ctx) error {
	var payload dto.UpdateSettingsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := h.users.UpdateSettings(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.sendUserError(c, err, "failed to update settings")
	}
	return utils.SendSuccess(c, "settings updated", profile)
}

func (h *UserHandler) changePassword(c *fiber.Ctx) error {
	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.users.ChangePassword(c.Context(), userIDFromContext(c), payload); err != nil {
		return h.sendUserError(c, err, "failed to change password")
	}
	return utils.SendSuccess(c, "password changed", nil)
}

func (h *UserHandler) deleteAccount(c *fiber.Ctx) error {
	if err := h.users.DeleteAccount(c.Context(), userIDFromContext(c)); err != nil {
		return h.sendUserError(c, err, "failed to delete account")
	}
	c.ClearCookie(middleware.AuthTokenCookie)
	return utils.SendSuccess(c, "account deleted", nil)
}

func (h *UserHandler) uploadPhoto(c *fiber.Ctx) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "photo file required")
	}

	response, err := h.users.UploadPhoto(c.Context(), userIDFromContext(c), file)
	if err != nil {
		return h.sendUserError(c, err, "failed to upload photo")
	}
	return utils.SendSuccess(c, "photo uploaded", response)
}

func (h *UserHandler) verifyEmail(c *fiber.Ctx) error {
	profile, err := h.users.VerifyEmail(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.sendUserError(c, err, "failed to verify email")
	}
	return utils.SendSuccess(c, "email verified", profile)
}

func (h *UserHandler) sendPhoneOTP(c *fiber.Ctx) error {
	var payload dto.SendPhoneOTPRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.users.SendPhoneOTP(c.Context(), userIDFromContext(c), payload); err != nil {
		return h.sendUserError(c, err, "failed to send verification code")
	}
	return utils.SendSuccess(c, "verification code sent", nil)
}

func (h *UserHandler) verifyPhoneOTP(c *fiber.Ctx) error {
	var payload dto.VerifyPhoneOTPRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := h.users.VerifyPhoneOTP(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.sendUserError(c, err, "failed to verify phone")
	}
	return utils.SendSuccess(c, "phone verified", profile)
}

func (h *UserHandler) listActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	entries, err := h.activity.ListForUser(c.Context(), userIDFromContext(c), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activity")
	}
	return utils.SendSuccess(c, "activity", entries)
}
