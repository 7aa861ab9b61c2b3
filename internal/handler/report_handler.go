package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edudesk/admin-api/internal/service"
	"github.com/edudesk/admin-api/internal/utils"
)

// ReportHandler exposes the dashboard rollups.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// RegisterReports attaches the aggregate report route.
func (h *ReportHandler) RegisterReports(router fiber.Router) {
	router.Get("", h.report)
}

// RegisterOverview attaches the overview counts route.
func (h *ReportHandler) RegisterOverview(router fiber.Router) {
	router.Get("", h.overview)
}

func (h *ReportHandler) report(c *fiber.Ctx) error {
	report, err := h.service.GetReport(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build report")
	}

	return utils.SendSuccess(c, "report generated", report)
}

func (h *ReportHandler) overview(c *fiber.Ctx) error {
	overview, err := h.service.GetOverview(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build overview")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build overview")
	}

	return utils.SendSuccess(c, "overview generated", overview)
}
