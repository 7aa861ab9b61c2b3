package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edudesk/admin-api/internal/dto"
	"github.com/edudesk/admin-api/internal/models"
	"github.com/edudesk/admin-api/internal/repository"
)

// TeacherService orchestrates teacher directory use cases, including the
// three removal variants and course assignment.
type TeacherService interface {
	List(ctx context.Context) ([]dto.TeacherResponse, error)
	Get(ctx context.Context, id uint) (dto.TeacherResponse, error)
	Create(ctx context.Context, payload dto.TeacherCreateRequest, actor ActivityActor) (dto.TeacherResponse, error)
	Update(ctx context.Context, id uint, payload dto.TeacherUpdateRequest, actor ActivityActor) (dto.TeacherResponse, error)
	Remove(ctx context.Context, id uint, actor ActivityActor) error
	RemoveWithCourses(ctx context.Context, id uint, courseIDs []uint, actor ActivityActor) (int64, error)
	RemoveOrphanCourses(ctx context.Context, id uint, actor ActivityActor) (int64, error)
	AssignCourse(ctx context.Context, teacherID, courseID uint, actor ActivityActor) (dto.TeacherResponse, error)
}

type teacherService struct {
	users     repository.UserRepository
	courses   repository.CourseRepository
	links     repository.LinkRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(users repository.UserRepository, courses repository.CourseRepository, links repository.LinkRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) TeacherService {
	return &teacherService{
		users:     users,
		courses:   courses,
		links:     links,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "teacher_service").Logger(),
	}
}

func (s *teacherService) List(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.users.ListByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		responses = append(responses, dto.NewTeacherResponse(teacher, nil))
	}
	return responses, nil
}

func (s *teacherService) Get(ctx context.Context, id uint) (dto.TeacherResponse, error) {
	teacher, err := s.users.GetByIDAndRole(ctx, id, models.RoleTeacher)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}
		return dto.TeacherResponse{}, err
	}

	return s.teacherWithCourses(ctx, teacher)
}

func (s *teacherService) Create(ctx context.Context, payload dto.TeacherCreateRequest, actor ActivityActor) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	taken, err := s.users.EmailTaken(ctx, payload.Email, 0)
	if err != nil {
		return dto.TeacherResponse{}, err
	}
	if taken {
		return dto.TeacherResponse{}, ErrEmailTaken
	}

	teacher := models.User{
		Name:  strings.TrimSpace(payload.Name),
		Email: strings.TrimSpace(payload.Email),
		Role:  models.RoleTeacher,
	}
	if err := s.users.Create(ctx, &teacher); err != nil {
		return dto.TeacherResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionTeacherAdded,
		TargetType: models.TargetUser,
		TargetID:   &teacher.ID,
		TargetName: teacher.Name,
	})

	return dto.NewTeacherResponse(teacher, nil), nil
}

func (s *teacherService) Update(ctx context.Context, id uint, payload dto.TeacherUpdateRequest, actor ActivityActor) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Email != nil {
		email := strings.TrimSpace(*payload.Email)
		taken, err := s.users.EmailTaken(ctx, email, id)
		if err != nil {
			return dto.TeacherResponse{}, err
		}
		if taken {
			return dto.TeacherResponse{}, ErrEmailTaken
		}
		updates["email"] = email
	}

	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	teacher, err := s.users.Update(ctx, id, models.RoleTeacher, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}
		return dto.TeacherResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionTeacherUpdated,
		TargetType: models.TargetUser,
		TargetID:   &teacher.ID,
		TargetName: teacher.Name,
	})

	return dto.NewTeacherResponse(teacher, nil), nil
}

// Remove performs the simple removal variant: it is allowed only when the
// teacher owns no courses, otherwise it fails with the blocking course list.
func (s *teacherService) Remove(ctx context.Context, id uint, actor ActivityActor) error {
	teacher, err := s.users.GetByIDAndRole(ctx, id, models.RoleTeacher)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}

	if len(teacher.CourseIDs) > 0 {
		blocking, err := s.courses.GetByIDs(ctx, teacher.CourseIDs)
		if err != nil {
			return err
		}
		return &TeacherHasCoursesError{Courses: courseRefs(blocking)}
	}

	if err := s.links.DeleteTeacher(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionTeacherRemoved,
		TargetType: models.TargetUser,
		TargetID:   &id,
		TargetName: teacher.Name,
	})
	return nil
}

// RemoveWithCourses deletes the teacher together with the supplied course
// ids. Ids not owned by the teacher are silently ignored. A nil list means
// the field was absent from the request and is rejected; an explicit empty
// list deletes the teacher alone.
func (s *teacherService) RemoveWithCourses(ctx context.Context, id uint, courseIDs []uint, actor ActivityActor) (int64, error) {
	if courseIDs == nil {
		return 0, ErrCoursesListMissing
	}

	teacher, err := s.users.GetByIDAndRole(ctx, id, models.RoleTeacher)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTeacherNotFound
		}
		return 0, err
	}

	deleted, err := s.links.DeleteTeacherWithCourses(ctx, id, courseIDs)
	if err != nil {
		return 0, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionTeacherRemovedWithCourses,
		TargetType: models.TargetUser,
		TargetID:   &id,
		TargetName: teacher.Name,
		Details:    map[string]interface{}{"deleted_courses": deleted},
	})
	return deleted, nil
}

// RemoveOrphanCourses deletes the teacher and leaves their courses behind
// unassigned.
func (s *teacherService) RemoveOrphanCourses(ctx context.Context, id uint, actor ActivityActor) (int64, error) {
	teacher, err := s.users.GetByIDAndRole(ctx, id, models.RoleTeacher)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTeacherNotFound
		}
		return 0, err
	}

	orphaned, err := s.links.DeleteTeacherOrphanCourses(ctx, id)
	if err != nil {
		return 0, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionTeacherRemovedKeepCourses,
		TargetType: models.TargetUser,
		TargetID:   &id,
		TargetName: teacher.Name,
		Details:    map[string]interface{}{"orphaned_courses": orphaned},
	})
	return orphaned, nil
}

// AssignCourse points the course at the teacher and keeps both teachers'
// lists consistent. Assigning a course already on the teacher's list is a
// conflict and changes nothing.
func (s *teacherService) AssignCourse(ctx context.Context, teacherID, courseID uint, actor ActivityActor) (dto.TeacherResponse, error) {
	teacher, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}
		return dto.TeacherResponse{}, err
	}
	if teacher.Role != models.RoleTeacher {
		return dto.TeacherResponse{}, ErrNotATeacher
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrCourseNotFound
		}
		return dto.TeacherResponse{}, err
	}

	if models.HasID(teacher.CourseIDs, courseID) {
		return dto.TeacherResponse{}, ErrAlreadyAssigned
	}

	if err := s.links.AssignCourseTeacher(ctx, courseID, teacherID, course.TeacherID); err != nil {
		return dto.TeacherResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionCourseAssignedTeacher,
		TargetType: models.TargetCourse,
		TargetID:   &courseID,
		TargetName: course.Name,
		Details: map[string]interface{}{
			"teacher_id":   teacherID,
			"teacher_name": teacher.Name,
		},
	})

	updated, err := s.users.GetByIDAndRole(ctx, teacherID, models.RoleTeacher)
	if err != nil {
		return dto.TeacherResponse{}, err
	}
	return s.teacherWithCourses(ctx, updated)
}

func (s *teacherService) teacherWithCourses(ctx context.Context, teacher models.User) (dto.TeacherResponse, error) {
	taught, err := s.courses.GetByIDs(ctx, teacher.CourseIDs)
	if err != nil {
		return dto.TeacherResponse{}, err
	}

	summaries, err := courseSummaries(ctx, s.users, taught)
	if err != nil {
		return dto.TeacherResponse{}, err
	}
	return dto.NewTeacherResponse(teacher, summaries), nil
}
