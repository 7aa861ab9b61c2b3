package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edudesk/admin-api/internal/dto"
	"github.com/edudesk/admin-api/internal/models"
	"github.com/edudesk/admin-api/internal/repository"
)

func newReportFixture(t *testing.T) (*gorm.DB, *redis.Client, ReportService) {
	t.Helper()
	db := setupTestDB(t)

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)
	cache := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	svc := NewReportService(repository.NewReportRepository(db), cache, time.Minute, zerolog.Nop())
	return db, cache, svc
}

func TestGetReportAggregates(t *testing.T) {
	db, _, svc := newReportFixture(t)
	ctx := context.Background()

	maria := seedTeacher(t, db, "maria")
	noel := seedTeacher(t, db, "noel")

	algebra := seedCourse(t, db, "Algebra", "Math", models.CourseStatusApproved)
	calculus := seedCourse(t, db, "Calculus", "Math", models.CourseStatusApproved)
	biology := seedCourse(t, db, "Biology", "Science", models.CourseStatusPending)
	seedCourse(t, db, "Drawing", "", models.CourseStatusRejected)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", maria.ID).
		Update("course_ids", datatypes.JSONSlice[uint]{algebra.ID, calculus.ID}).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", noel.ID).
		Update("course_ids", datatypes.JSONSlice[uint]{biology.ID}).Error)

	seedStudent(t, db, "pia", "8")
	seedStudent(t, db, "quin", "8")
	seedStudent(t, db, "rui", "")

	report, err := svc.GetReport(ctx)
	require.NoError(t, err)
	require.False(t, report.CacheHit)

	require.Equal(t, dto.CourseStatusCounts{Total: 4, Pending: 1, Approved: 2, Rejected: 1}, report.CourseStatusCounts)

	require.Equal(t, []dto.NameCount{
		{Name: "Math", Count: 2},
		{Name: "Science", Count: 1},
		{Name: "Uncategorized", Count: 1},
	}, report.SubjectDistribution)

	require.Equal(t, []dto.NameCount{
		{Name: "maria", Count: 2},
		{Name: "noel", Count: 1},
	}, report.CoursesPerTeacher)

	require.Equal(t, 3, report.TotalStudents)
	require.Equal(t, []dto.NameCount{
		{Name: "8", Count: 2},
		{Name: "Ungraded", Count: 1},
	}, report.StudentGradeDistribution)
	require.False(t, report.GeneratedAt.IsZero())
}

func TestGetReportServesCachedSnapshot(t *testing.T) {
	_, cache, svc := newReportFixture(t)
	ctx := context.Background()

	snapshot := dto.ReportResponse{
		CourseStatusCounts: dto.CourseStatusCounts{Total: 42, Approved: 42},
		TotalStudents:      7,
	}
	payload, err := json.Marshal(snapshot)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, "reports:summary", payload, time.Minute).Err())

	report, err := svc.GetReport(ctx)
	require.NoError(t, err)
	require.True(t, report.CacheHit)
	require.Equal(t, 42, report.CourseStatusCounts.Total)
	require.Equal(t, 7, report.TotalStudents)
}

func TestGetReportPopulatesCache(t *testing.T) {
	db, cache, svc := newReportFixture(t)
	ctx := context.Background()

	seedCourse(t, db, "Choir", "Music", models.CourseStatusApproved)

	_, err := svc.GetReport(ctx)
	require.NoError(t, err)

	stored, err := cache.Get(ctx, "reports:summary").Result()
	require.NoError(t, err)

	var cached dto.ReportResponse
	require.NoError(t, json.Unmarshal([]byte(stored), &cached))
	require.Equal(t, 1, cached.CourseStatusCounts.Total)
}

func TestGetReportWorksWithoutCache(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(repository.NewReportRepository(db), nil, time.Minute, zerolog.Nop())

	seedCourse(t, db, "Chess", "Games", models.CourseStatusPending)

	report, err := svc.GetReport(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.CourseStatusCounts.Pending)
}

func TestGetOverviewSumsEnrollments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(repository.NewReportRepository(db), nil, time.Minute, zerolog.Nop())
	links := repository.NewLinkRepository(db)
	ctx := context.Background()

	seedTeacher(t, db, "sol")
	a := seedStudent(t, db, "tam", "9")
	b := seedStudent(t, db, "uma", "9")
	one := seedCourse(t, db, "Physics", "Science", models.CourseStatusApproved)
	two := seedCourse(t, db, "Poetry", "English", models.CourseStatusApproved)

	require.NoError(t, links.Enroll(ctx, a.ID, one.ID))
	require.NoError(t, links.Enroll(ctx, a.ID, two.ID))
	require.NoError(t, links.Enroll(ctx, b.ID, one.ID))

	overview, err := svc.GetOverview(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), overview.TeacherCount)
	require.Equal(t, int64(2), overview.StudentCount)
	require.Equal(t, int64(2), overview.CourseCount)
	require.Equal(t, int64(3), overview.EnrollmentCount)
}
