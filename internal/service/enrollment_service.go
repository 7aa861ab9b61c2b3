package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edudesk/admin-api/internal/models"
	"github.com/edudesk/admin-api/internal/repository"
)

// EnrollmentService keeps the student ↔ course many-to-many relationship in
// sync. Enroll never silently succeeds on an already-linked pair, but it does
// repair a one-sided link before reporting the conflict.
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID uint, actor ActivityActor) error
	Unenroll(ctx context.Context, studentID, courseID uint, actor ActivityActor) error
}

type enrollmentService struct {
	users    repository.UserRepository
	courses  repository.CourseRepository
	links    repository.LinkRepository
	activity ActivityRecorder
	logger   zerolog.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(users repository.UserRepository, courses repository.CourseRepository, links repository.LinkRepository, activity ActivityRecorder, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		users:    users,
		courses:  courses,
		links:    links,
		activity: activity,
		logger:   logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, studentID, courseID uint, actor ActivityActor) error {
	student, err := s.users.GetByIDAndRole(ctx, studentID, models.RoleStudent)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if course.Status != models.CourseStatusApproved {
		return ErrCourseNotApproved
	}

	studentSide := models.HasID(student.EnrollmentIDs, courseID)
	courseSide := models.HasID(course.StudentIDs, studentID)

	if studentSide || courseSide {
		// One-sided links are repaired before the conflict is reported, so
		// the next read observes a consistent pair.
		if err := s.links.RepairEnrollment(ctx, studentID, courseID); err != nil {
			s.logger.Warn().Err(err).
				Uint("student_id", studentID).
				Uint("course_id", courseID).
				Msg("failed to repair one-sided enrollment")
		}
		return ErrAlreadyEnrolled
	}

	if err := s.links.Enroll(ctx, studentID, courseID); err != nil {
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionStudentEnrolled,
		TargetType: models.TargetUser,
		TargetID:   &studentID,
		TargetName: student.Name,
		Details: map[string]interface{}{
			"course_id":   courseID,
			"course_name": course.Name,
		},
	})
	return nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, studentID, courseID uint, actor ActivityActor) error {
	student, err := s.users.GetByIDAndRole(ctx, studentID, models.RoleStudent)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	// The pulls tolerate rows that vanished in between.
	if err := s.links.Unenroll(ctx, studentID, courseID); err != nil {
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		ActionType: models.ActionStudentUnenrolled,
		TargetType: models.TargetUser,
		TargetID:   &studentID,
		TargetName: student.Name,
		Details: map[string]interface{}{
			"course_id":   courseID,
			"course_name": course.Name,
		},
	})
	return nil
}
