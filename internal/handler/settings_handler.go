package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edudesk/admin-api/internal/dto"
	"github.com/edudesk/admin-api/internal/service"
	"github.com/edudesk/admin-api/internal/utils"
)

// SettingsHandler exposes the admin profile endpoints.
type SettingsHandler struct {
	service service.SettingsService
	logger  zerolog.Logger
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(service service.SettingsService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger.With().Str("component", "settings_handler").Logger(),
	}
}

// Register attaches settings routes to the router group.
func (h *SettingsHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Put("", h.update)
}

func (h *SettingsHandler) get(c *fiber.Ctx) error {
	adminID := userIDFromContext(c)
	if adminID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing admin identity")
	}

	profile, err := h.service.GetProfile(c.Context(), adminID)
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "admin not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch admin profile")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch admin profile")
	}

	return utils.SendSuccess(c, "settings retrieved", profile)
}

func (h *SettingsHandler) update(c *fiber.Ctx) error {
	adminID := userIDFromContext(c)
	if adminID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing admin identity")
	}

	var payload dto.SettingsUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	profile, err := h.service.UpdateProfile(c.Context(), adminID, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "admin not found")
		case errors.Is(err, service.ErrEmailTaken):
			return utils.SendError(c, fiber.StatusBadRequest, "email already in use")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update admin profile")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update admin profile")
		}
	}

	return utils.SendSuccess(c, "settings updated", profile)
}
