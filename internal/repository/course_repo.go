package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edudesk/admin-api/internal/models"
)

// CourseFilter narrows course listings.
type CourseFilter struct {
	Status    string
	Subject   string
	Grade     string
	TeacherID *uint
}

// CourseRepository exposes persistence helpers for the course directory.
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]models.Course, error)
	GetByID(ctx context.Context, id uint) (models.Course, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Course, error)
	SetStatus(ctx context.Context, id uint, status string) (models.Course, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs the course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Grade != "" {
		query = query.Where("grade = ?", filter.Grade)
	}
	if filter.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filter.TeacherID)
	}

	var courses []models.Course
	err := query.Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var courses []models.Course
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error
	return courses, err
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.Status == "" {
		course.Status = models.CourseStatusPending
	}
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Course, error) {
	result := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return models.Course{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Course{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *courseRepository) SetStatus(ctx context.Context, id uint, status string) (models.Course, error) {
	return r.Update(ctx, id, map[string]interface{}{"status": status})
}

