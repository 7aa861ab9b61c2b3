package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edudesk/admin-api/internal/service"
	"github.com/edudesk/admin-api/internal/utils"
)

// ActivityHandler exposes the recent activity feed.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches the feed route to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.feed)
}

func (h *ActivityHandler) feed(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	entries, err := h.service.Feed(c.Context(), limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load activity feed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load activity feed")
	}

	return utils.SendSuccess(c, "activity retrieved", entries)
}
