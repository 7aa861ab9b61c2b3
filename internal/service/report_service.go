package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/edudesk/admin-api/internal/dto"
	"github.com/edudesk/admin-api/internal/models"
	"github.com/edudesk/admin-api/internal/repository"
)

const uncategorized = "Uncategorized"

// ReportService builds the read-only rollups for the admin dashboard. It is
// stateless and safe to run concurrently with any mutation; results are an
// eventually-consistent snapshot, optionally cached in redis.
type ReportService interface {
	GetReport(ctx context.Context) (dto.ReportResponse, error)
	GetOverview(ctx context.Context) (dto.OverviewResponse, error)
}

type reportService struct {
	repo     repository.ReportRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewReportService constructs the report service. The cache client may be nil.
func NewReportService(repo repository.ReportRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ReportService {
	return &reportService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "report_service").Logger(),
		now:      time.Now,
	}
}

func (s *reportService) GetReport(ctx context.Context) (dto.ReportResponse, error) {
	const cacheKey = "reports:summary"
	tracer := otel.Tracer("github.com/edudesk/admin-api/internal/service/report")
	ctx, span := tracer.Start(ctx, "report.aggregate")
	span.SetAttributes(attribute.String("report.cache_key", cacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.ReportResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("report.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read report cache")
			span.RecordError(err)
		}
	}

	courses, err := s.repo.CourseRows(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course_rows_failed")
		return dto.ReportResponse{}, err
	}
	teachers, err := s.repo.TeacherRows(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "teacher_rows_failed")
		return dto.ReportResponse{}, err
	}
	students, err := s.repo.StudentRows(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "student_rows_failed")
		return dto.ReportResponse{}, err
	}

	report := s.buildReport(courses, teachers, students)
	span.SetAttributes(
		attribute.Int("report.course_count", len(courses)),
		attribute.Int("report.student_count", len(students)),
	)

	if s.cache != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store report cache")
				span.RecordError(err)
			}
		}
	}
	return report, nil
}

func (s *reportService) GetOverview(ctx context.Context) (dto.OverviewResponse, error) {
	teacherCount, err := s.repo.CountTeachers(ctx)
	if err != nil {
		return dto.OverviewResponse{}, err
	}
	studentCount, err := s.repo.CountStudents(ctx)
	if err != nil {
		return dto.OverviewResponse{}, err
	}
	courseCount, err := s.repo.CountCourses(ctx)
	if err != nil {
		return dto.OverviewResponse{}, err
	}

	students, err := s.repo.StudentRows(ctx)
	if err != nil {
		return dto.OverviewResponse{}, err
	}
	var enrollments int64
	for _, student := range students {
		enrollments += int64(len(student.EnrollmentIDs))
	}

	return dto.OverviewResponse{
		TeacherCount:    teacherCount,
		StudentCount:    studentCount,
		CourseCount:     courseCount,
		EnrollmentCount: enrollments,
	}, nil
}

func (s *reportService) buildReport(courses []models.Course, teachers, students []models.User) dto.ReportResponse {
	statusCounts := dto.CourseStatusCounts{Total: len(courses)}
	subjects := map[string]int{}
	grades := map[string]int{}

	for _, course := range courses {
		switch course.Status {
		case models.CourseStatusPending:
			statusCounts.Pending++
		case models.CourseStatusApproved:
			statusCounts.Approved++
		case models.CourseStatusRejected:
			statusCounts.Rejected++
		}

		subject := course.Subject
		if subject == "" {
			subject = uncategorized
		}
		subjects[subject]++

		grade := course.Grade
		if grade == "" {
			grade = uncategorized
		}
		grades[grade]++
	}

	perTeacher := make([]dto.NameCount, 0, len(teachers))
	for _, teacher := range teachers {
		perTeacher = append(perTeacher, dto.NameCount{Name: teacher.Name, Count: len(teacher.CourseIDs)})
	}
	sortByCountDesc(perTeacher)

	studentGrades := map[string]int{}
	for _, student := range students {
		grade := student.Grade
		if grade == "" {
			grade = "Ungraded"
		}
		studentGrades[grade]++
	}

	return dto.ReportResponse{
		CourseStatusCounts:       statusCounts,
		SubjectDistribution:      sortedByCountDesc(subjects),
		GradeDistribution:        sortedByName(grades),
		CoursesPerTeacher:        perTeacher,
		TotalStudents:            len(students),
		StudentGradeDistribution: sortedByName(studentGrades),
		GeneratedAt:              s.now(),
	}
}

func sortedByCountDesc(buckets map[string]int) []dto.NameCount {
	out := bucketsToSlice(buckets)
	sortByCountDesc(out)
	return out
}

func sortedByName(buckets map[string]int) []dto.NameCount {
	out := bucketsToSlice(buckets)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func bucketsToSlice(buckets map[string]int) []dto.NameCount {
	out := make([]dto.NameCount, 0, len(buckets))
	for name, count := range buckets {
		out = append(out, dto.NameCount{Name: name, Count: count})
	}
	return out
}

func sortByCountDesc(items []dto.NameCount) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Name < items[j].Name
	})
}
