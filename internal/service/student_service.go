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

// StudentListRequest filters student listings.
type StudentListRequest struct {
	Grade              string
	Search             string
	IncludeEnrollments bool
}

// StudentService orchestrates student directory use cases.
type StudentService interface {
	List(ctx context.Context, req StudentListRequest) ([]dto.StudentResponse, error)
	Get(ctx context.Context, id uint, includeEnrollments bool) (dto.StudentResponse, error)
	Create(ctx context.Context, payload dto.StudentCreateRequest, actor ActivityActor) (dto.StudentResponse, error)
	Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest, actor ActivityActor) (dto.StudentResponse, error)
	Remove(ctx context.Context, id uint, actor ActivityActor) error
}

type studentService struct {
	users     repository.UserRepository
	courses   repository.CourseRepository
	links     repository.LinkRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(users repository.UserRepository, courses repository.CourseRepository, links repository.LinkRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) StudentService {
	return &studentService{
		users:     users,
		courses:   courses,
		links:     links,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, req StudentListRequest) ([]dto.StudentResponse, error) {
	students, err := s.users.SearchStudents(ctx, repository.StudentFilter{
		Grade:  strings.TrimSpace(req.Grade),
		Search: strings.TrimSpace(req.Search),
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		var enrollments []dto.CourseSummary
		if req.IncludeEnrollments {
			enrollments, err = s.enrollmentSummaries(ctx, student)
			if err != nil {
				return nil, err
			}
		}
		responses = append(responses, dto.NewStudentResponse(student, enrollments))
	}
	return responses, nil
}

func (s *studentService) Get(ctx context.Context, id uint, includeEnrollments bool) (dto.StudentResponse, error) {
	student, err := s.users.GetByIDAndRole(ctx, id, models.RoleStudent)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	var enrollments []dto.CourseSummary
	if includeEnrollments {
		enrollments, err = s.enrollmentSummaries(ctx, student)
		if err != nil {
			return dto.StudentResponse{}, err
		}
	}
	return dto.NewStudentResponse(student, enrollments), nil
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest, actor ActivityActor) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	taken, err := s.users.EmailTaken(ctx, payload.Email, 0)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	if taken {
		return dto.StudentResponse{}, ErrEmailTaken
	}

	student := models.User{
		Name:  strings.TrimSpace(payload.Name),
		Email: strings.TrimSpace(payload.Email),
		Role:  models.RoleStudent,
		Grade: strings.TrimSpace(payload.Grade),
	}
	if err := s.users.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionStudentAdded,
		TargetType: models.TargetUser,
		TargetID:   &student.ID,
		TargetName: student.Name,
		Details:    map[string]interface{}{"grade": student.Grade},
	})

	return dto.NewStudentResponse(student, nil), nil
}

func (s *studentService) Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest, actor ActivityActor) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	updates := make(map[string]interface{})
	changed := make([]string, 0, 3)
	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
		changed = append(changed, "name")
	}
	if payload.Email != nil {
		email := strings.TrimSpace(*payload.Email)
		taken, err := s.users.EmailTaken(ctx, email, id)
		if err != nil {
			return dto.StudentResponse{}, err
		}
		if taken {
			return dto.StudentResponse{}, ErrEmailTaken
		}
		updates["email"] = email
		changed = append(changed, "email")
	}
	if payload.Grade != nil {
		updates["grade"] = strings.TrimSpace(*payload.Grade)
		changed = append(changed, "grade")
	}

	if len(updates) == 0 {
		return s.Get(ctx, id, false)
	}

	student, err := s.users.Update(ctx, id, models.RoleStudent, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionStudentUpdated,
		TargetType: models.TargetUser,
		TargetID:   &student.ID,
		TargetName: student.Name,
		Details:    map[string]interface{}{"fields": changed},
	})

	return dto.NewStudentResponse(student, nil), nil
}

// Remove deletes the student and pulls their id from every enrolled course.
func (s *studentService) Remove(ctx context.Context, id uint, actor ActivityActor) error {
	student, err := s.users.GetByIDAndRole(ctx, id, models.RoleStudent)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	if err := s.links.DeleteStudentCascade(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionStudentRemoved,
		TargetType: models.TargetUser,
		TargetID:   &id,
		TargetName: student.Name,
	})
	return nil
}

func (s *studentService) enrollmentSummaries(ctx context.Context, student models.User) ([]dto.CourseSummary, error) {
	enrolled, err := s.courses.GetByIDs(ctx, student.EnrollmentIDs)
	if err != nil {
		return nil, err
	}
	return courseSummaries(ctx, s.users, enrolled)
}
