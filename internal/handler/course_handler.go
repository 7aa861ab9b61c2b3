package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edudesk/admin-api/internal/dto"
	"github.com/edudesk/admin-api/internal/service"
	"github.com/edudesk/admin-api/internal/utils"
)

// CourseHandler wires the admin course endpoints.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register attaches course routes to the router group.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
	router.Put("/:id/approve", h.approve)
	router.Put("/:id/reject", h.reject)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	teacherID, err := parseQueryUint(c, "teacher_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid teacher identifier")
	}

	req := service.CourseListRequest{
		Status:    c.Query("status"),
		Subject:   c.Query("subject"),
		Grade:     c.Query("grade"),
		TeacherID: teacherID,
	}

	courses, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list courses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list courses")
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	course, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch course")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch course")
	}

	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	course, err := h.service.Create(c.Context(), payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTeacherRef):
			return utils.SendError(c, fiber.StatusBadRequest, "referenced teacher does not exist")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create course")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create course")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	course, err := h.service.Update(c.Context(), id, payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrInvalidTeacherRef):
			return utils.SendError(c, fiber.StatusBadRequest, "referenced teacher does not exist")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update course")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update course")
		}
	}

	return utils.SendSuccess(c, "course updated", course)
}

func (h *CourseHandler) remove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := activityActorFromContext(c)
	if err := h.service.Remove(c.Context(), id, actor); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete course")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete course")
	}

	return utils.SendSuccess(c, "course deleted", fiber.Map{"id": id})
}

func (h *CourseHandler) approve(c *fiber.Ctx) error {
	return h.setStatus(c, h.service.Approve, "course approved")
}

func (h *CourseHandler) reject(c *fiber.Ctx) error {
	return h.setStatus(c, h.service.Reject, "course rejected")
}

func (h *CourseHandler) setStatus(c *fiber.Ctx, transition func(ctx context.Context, id uint, actor service.ActivityActor) (dto.CourseResponse, error), message string) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := activityActorFromContext(c)
	course, err := transition(c.Context(), id, actor)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to change course status")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to change course status")
	}

	return utils.SendSuccess(c, message, course)
}
