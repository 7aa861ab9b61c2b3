package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edudesk/admin-api/internal/models"
	"github.com/edudesk/admin-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedResult reports how many records a seeding run created.
type SeedResult struct {
	Teachers    int `json:"teachers"`
	Students    int `json:"students"`
	Courses     int `json:"courses"`
	Enrollments int `json:"enrollments"`
}

// SeedService loads a small demo directory for local development.
type SeedService interface {
	SeedDemoData(ctx context.Context, token string) (SeedResult, error)
}

type seedService struct {
	users   repository.UserRepository
	courses repository.CourseRepository
	links   repository.LinkRepository
	enabled bool
	token   string
	logger  zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(users repository.UserRepository, courses repository.CourseRepository, links repository.LinkRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		users:   users,
		courses: courses,
		links:   links,
		enabled: enabled,
		token:   token,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedDemoData(ctx context.Context, token string) (SeedResult, error) {
	if !s.enabled {
		return SeedResult{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return SeedResult{}, ErrSeedUnauthorized
	}

	teachers := []models.User{
		{Name: "Maria Santos", Email: "maria.santos@edudesk.dev", Role: models.RoleTeacher},
		{Name: "James Okafor", Email: "james.okafor@edudesk.dev", Role: models.RoleTeacher},
	}
	for i := range teachers {
		if err := s.users.Create(ctx, &teachers[i]); err != nil {
			return SeedResult{}, err
		}
	}

	students := []models.User{
		{Name: "Lena Park", Email: "lena.park@edudesk.dev", Role: models.RoleStudent, Grade: "8"},
		{Name: "Diego Ruiz", Email: "diego.ruiz@edudesk.dev", Role: models.RoleStudent, Grade: "8"},
		{Name: "Aisha Bello", Email: "aisha.bello@edudesk.dev", Role: models.RoleStudent, Grade: "9"},
	}
	for i := range students {
		if err := s.users.Create(ctx, &students[i]); err != nil {
			return SeedResult{}, err
		}
	}

	courses := []models.Course{
		{Name: "Algebra Foundations", Subject: "Math", Grade: "8", Status: models.CourseStatusApproved},
		{Name: "World History", Subject: "History", Grade: "9", Status: models.CourseStatusApproved},
		{Name: "Intro to Chemistry", Subject: "Science", Grade: "9", Status: models.CourseStatusPending},
	}
	for i := range courses {
		if err := s.courses.Create(ctx, &courses[i]); err != nil {
			return SeedResult{}, err
		}
		teacher := teachers[i%len(teachers)]
		if err := s.links.AssignCourseTeacher(ctx, courses[i].ID, teacher.ID, nil); err != nil {
			return SeedResult{}, err
		}
	}

	enrollments := 0
	for i, student := range students {
		course := courses[i%2]
		if err := s.links.Enroll(ctx, student.ID, course.ID); err != nil {
			return SeedResult{}, err
		}
		enrollments++
	}

	result := SeedResult{
		Teachers:    len(teachers),
		Students:    len(students),
		Courses:     len(courses),
		Enrollments: enrollments,
	}
	s.logger.Info().
		Int("teachers", result.Teachers).
		Int("students", result.Students).
		Int("courses", result.Courses).
		Msg("demo data seeded")
	return result, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}
