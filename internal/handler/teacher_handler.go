package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edudesk/admin-api/internal/dto"
	"github.com/edudesk/admin-api/internal/service"
	"github.com/edudesk/admin-api/internal/utils"
)

// TeacherHandler wires the admin teacher endpoints.
type TeacherHandler struct {
	service service.TeacherService
	logger  zerolog.Logger
}

// NewTeacherHandler constructs the handler.
func NewTeacherHandler(service service.TeacherService, logger zerolog.Logger) *TeacherHandler {
	return &TeacherHandler{
		service: service,
		logger:  logger.With().Str("component", "teacher_handler").Logger(),
	}
}

// Register attaches teacher routes to the router group.
func (h *TeacherHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.remove)
	router.Put("/:id/assign-course", h.assignCourse)
	router.Delete("/:id/delete-with-courses", h.removeWithCourses)
	router.Delete("/:id/orphan-courses", h.removeOrphanCourses)
}

func (h *TeacherHandler) list(c *fiber.Ctx) error {
	teachers, err := h.service.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list teachers")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list teachers")
	}

	return utils.SendSuccess(c, "teachers retrieved", teachers)
}

func (h *TeacherHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	teacher, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch teacher")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch teacher")
	}

	return utils.SendSuccess(c, "teacher retrieved", teacher)
}

func (h *TeacherHandler) create(c *fiber.Ctx) error {
	var payload dto.TeacherCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	teacher, err := h.service.Create(c.Context(), payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return utils.SendError(c, fiber.StatusBadRequest, "email already in use")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create teacher")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create teacher")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "teacher created", teacher)
}

func (h *TeacherHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.TeacherUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	teacher, err := h.service.Update(c.Context(), id, payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTeacherNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
		case errors.Is(err, service.ErrEmailTaken):
			return utils.SendError(c, fiber.StatusBadRequest, "email already in use")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update teacher")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update teacher")
		}
	}

	return utils.SendSuccess(c, "teacher updated", teacher)
}

func (h *TeacherHandler) remove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := activityActorFromContext(c)
	if err := h.service.Remove(c.Context(), id, actor); err != nil {
		var blocked *service.TeacherHasCoursesError
		switch {
		case errors.Is(err, service.ErrTeacherNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
		case errors.As(err, &blocked):
			return utils.SendErrorWithData(c, fiber.StatusBadRequest, "teacher has assigned courses", fiber.Map{
				"courses": blocked.Courses,
			})
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete teacher")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete teacher")
		}
	}

	return utils.SendSuccess(c, "teacher deleted", fiber.Map{"id": id})
}

func (h *TeacherHandler) removeWithCourses(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.RemoveWithCoursesRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	deleted, err := h.service.RemoveWithCourses(c.Context(), id, payload.CourseIDs, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTeacherNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
		case errors.Is(err, service.ErrCoursesListMissing):
			return utils.SendError(c, fiber.StatusBadRequest, "courses_to_delete must be an array")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete teacher with courses")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete teacher")
		}
	}

	return utils.SendSuccess(c, "teacher and courses deleted", fiber.Map{
		"id":              id,
		"deleted_courses": deleted,
	})
}

func (h *TeacherHandler) removeOrphanCourses(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := activityActorFromContext(c)
	orphaned, err := h.service.RemoveOrphanCourses(c.Context(), id, actor)
	if err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete teacher and orphan courses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete teacher")
	}

	return utils.SendSuccess(c, "teacher deleted, courses unassigned", fiber.Map{
		"id":               id,
		"orphaned_courses": orphaned,
	})
}

func (h *TeacherHandler) assignCourse(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AssignCourseRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	teacher, err := h.service.AssignCourse(c.Context(), id, payload.CourseID, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTeacherNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
		case errors.Is(err, service.ErrNotATeacher):
			return utils.SendError(c, fiber.StatusBadRequest, "user is not a teacher")
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrAlreadyAssigned):
			return utils.SendError(c, fiber.StatusBadRequest, "course already assigned to this teacher")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to assign course")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to assign course")
		}
	}

	return utils.SendSuccess(c, "course assigned", teacher)
}
