package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edudesk/admin-api/internal/dto"
	"github.com/edudesk/admin-api/internal/models"
	"github.com/edudesk/admin-api/internal/repository"
)

// CourseListRequest filters course listings.
type CourseListRequest struct {
	Status    string
	Subject   string
	Grade     string
	TeacherID *uint
}

// CourseService orchestrates course directory use cases.
type CourseService interface {
	List(ctx context.Context, req CourseListRequest) ([]dto.CourseResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest, actor ActivityActor) (dto.CourseResponse, error)
	Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest, actor ActivityActor) (dto.CourseResponse, error)
	Approve(ctx context.Context, id uint, actor ActivityActor) (dto.CourseResponse, error)
	Reject(ctx context.Context, id uint, actor ActivityActor) (dto.CourseResponse, error)
	Remove(ctx context.Context, id uint, actor ActivityActor) error
}

type courseService struct {
	courses   repository.CourseRepository
	users     repository.UserRepository
	links     repository.LinkRepository
	validator *validator.Validate
	activity  ActivityRecorder
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewCourseService constructs the course service. Free-text fields are
// sanitized before persistence.
func NewCourseService(courses repository.CourseRepository, users repository.UserRepository, links repository.LinkRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courses,
		users:     users,
		links:     links,
		validator: validate,
		activity:  activity,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) List(ctx context.Context, req CourseListRequest) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx, repository.CourseFilter{
		Status:    strings.TrimSpace(req.Status),
		Subject:   strings.TrimSpace(req.Subject),
		Grade:     strings.TrimSpace(req.Grade),
		TeacherID: req.TeacherID,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		response := dto.NewCourseResponse(course)
		if err := s.attachTeacher(ctx, &response, course); err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	response := dto.NewCourseResponse(course)
	if err := s.attachTeacher(ctx, &response, course); err != nil {
		return dto.CourseResponse{}, err
	}

	if len(course.StudentIDs) > 0 {
		students, err := s.users.GetByIDs(ctx, course.StudentIDs)
		if err != nil {
			return dto.CourseResponse{}, err
		}
		summaries := make([]dto.StudentSummary, 0, len(students))
		for _, student := range students {
			summaries = append(summaries, dto.NewStudentSummary(student))
		}
		response.Students = summaries
	}
	return response, nil
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest, actor ActivityActor) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	teacher, err := s.users.GetByID(ctx, payload.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrInvalidTeacherRef
		}
		return dto.CourseResponse{}, err
	}
	if teacher.Role != models.RoleTeacher {
		return dto.CourseResponse{}, ErrInvalidTeacherRef
	}

	teacherID := payload.TeacherID
	course := models.Course{
		Name:        strings.TrimSpace(payload.Name),
		Description: s.sanitizer.Sanitize(payload.Description),
		Subject:     strings.TrimSpace(payload.Subject),
		Grade:       strings.TrimSpace(payload.Grade),
		Syllabus:    s.sanitizer.Sanitize(payload.Syllabus),
		Resources:   s.sanitizer.Sanitize(payload.Resources),
		Status:      models.CourseStatusPending,
		TeacherID:   &teacherID,
	}
	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	if err := s.links.ReassignCourseTeacher(ctx, course.ID, nil, &teacherID); err != nil {
		return dto.CourseResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionCourseAdded,
		TargetType: models.TargetCourse,
		TargetID:   &course.ID,
		TargetName: course.Name,
		Details:    map[string]interface{}{"teacher_assigned": teacher.Name},
	})

	response := dto.NewCourseResponse(course)
	response.Teacher = ptrTeacherSummary(teacher)
	return response, nil
}

// Update patches course fields. When the teacher reference changes, the
// affected teachers' course lists are moved as well, even though the course
// row itself was already rewritten by the generic patch.
func (s *courseService) Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest, actor ActivityActor) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	before, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	var teacherName string
	if payload.Teacher.Set && payload.Teacher.Value != nil {
		teacher, err := s.users.GetByID(ctx, *payload.Teacher.Value)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CourseResponse{}, ErrInvalidTeacherRef
			}
			return dto.CourseResponse{}, err
		}
		if teacher.Role != models.RoleTeacher {
			return dto.CourseResponse{}, ErrInvalidTeacherRef
		}
		teacherName = teacher.Name
	}

	updates := make(map[string]interface{})
	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Description != nil {
		updates["description"] = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Subject != nil {
		updates["subject"] = strings.TrimSpace(*payload.Subject)
	}
	if payload.Grade != nil {
		updates["grade"] = strings.TrimSpace(*payload.Grade)
	}
	if payload.Syllabus != nil {
		updates["syllabus"] = s.sanitizer.Sanitize(*payload.Syllabus)
	}
	if payload.Resources != nil {
		updates["resources"] = s.sanitizer.Sanitize(*payload.Resources)
	}
	if payload.Teacher.Set {
		updates["teacher_id"] = payload.Teacher.Value
	}

	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	updated, err := s.courses.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if payload.Teacher.Set && !sameTeacher(before.TeacherID, payload.Teacher.Value) {
		if err := s.links.ReassignCourseTeacher(ctx, id, before.TeacherID, payload.Teacher.Value); err != nil {
			return dto.CourseResponse{}, err
		}
	}

	details := map[string]interface{}{}
	if teacherName != "" {
		details["teacher_assigned"] = teacherName
	}
	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionCourseUpdated,
		TargetType: models.TargetCourse,
		TargetID:   &updated.ID,
		TargetName: updated.Name,
		Details:    details,
	})

	response := dto.NewCourseResponse(updated)
	if err := s.attachTeacher(ctx, &response, updated); err != nil {
		return dto.CourseResponse{}, err
	}
	return response, nil
}

// Approve flips the course to approved. There is no guard against
// re-approving: the admin override from any state is deliberate.
func (s *courseService) Approve(ctx context.Context, id uint, actor ActivityActor) (dto.CourseResponse, error) {
	return s.setStatus(ctx, id, models.CourseStatusApproved, models.ActionCourseApproved, actor)
}

// Reject flips the course to rejected, from any state.
func (s *courseService) Reject(ctx context.Context, id uint, actor ActivityActor) (dto.CourseResponse, error) {
	return s.setStatus(ctx, id, models.CourseStatusRejected, models.ActionCourseRejected, actor)
}

func (s *courseService) setStatus(ctx context.Context, id uint, status, actionType string, actor ActivityActor) (dto.CourseResponse, error) {
	course, err := s.courses.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: actionType,
		TargetType: models.TargetCourse,
		TargetID:   &course.ID,
		TargetName: course.Name,
	})
	return dto.NewCourseResponse(course), nil
}

// Remove cascade-deletes the course: the record itself, the back-reference
// on the former teacher, and the enrollment entry on every student.
func (s *courseService) Remove(ctx context.Context, id uint, actor ActivityActor) error {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if err := s.links.DeleteCourseCascade(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionCourseRemoved,
		TargetType: models.TargetCourse,
		TargetID:   &id,
		TargetName: course.Name,
	})
	return nil
}

func (s *courseService) attachTeacher(ctx context.Context, response *dto.CourseResponse, course models.Course) error {
	if course.TeacherID == nil {
		return nil
	}
	teacher, err := s.users.GetByID(ctx, *course.TeacherID)
	if err != nil {
		// A dangling teacher reference degrades to an unattached summary.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	response.Teacher = ptrTeacherSummary(teacher)
	return nil
}

func ptrTeacherSummary(teacher models.User) *dto.TeacherSummary {
	summary := dto.NewTeacherSummary(teacher)
	return &summary
}

func sameTeacher(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
