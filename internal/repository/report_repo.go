package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edudesk/admin-api/internal/models"
)

// ReportRepository supplies the raw rows the report aggregator reduces over.
// All reads are snapshot-style; no method mutates anything.
type ReportRepository interface {
	CourseRows(ctx context.Context) ([]models.Course, error)
	TeacherRows(ctx context.Context) ([]models.User, error)
	StudentRows(ctx context.Context) ([]models.User, error)
	CountTeachers(ctx context.Context) (int64, error)
	CountStudents(ctx context.Context) (int64, error)
	CountCourses(ctx context.Context) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository constructs the report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CourseRows(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).Find(&courses).Error
	return courses, err
}

func (r *reportRepository) TeacherRows(ctx context.Context) ([]models.User, error) {
	var teachers []models.User
	err := r.db.WithContext(ctx).
		Select("id", "name", "course_ids").
		Where("role = ?", models.RoleTeacher).
		Find(&teachers).Error
	return teachers, err
}

func (r *reportRepository) StudentRows(ctx context.Context) ([]models.User, error) {
	var students []models.User
	err := r.db.WithContext(ctx).
		Select("id", "grade", "enrollment_ids").
		Where("role = ?", models.RoleStudent).
		Find(&students).Error
	return students, err
}

func (r *reportRepository) CountTeachers(ctx context.Context) (int64, error) {
	return r.countByRole(ctx, models.RoleTeacher)
}

func (r *reportRepository) CountStudents(ctx context.Context) (int64, error) {
	return r.countByRole(ctx, models.RoleStudent)
}

func (r *reportRepository) countByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) CountCourses(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Course{}).Count(&count).Error
	return count, err
}
