package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/edudesk/admin-api/internal/models"
)

// StudentFilter narrows student listings.
type StudentFilter struct {
	Grade  string
	Search string
}

// UserRepository exposes persistence helpers for the account directory.
type UserRepository interface {
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	SearchStudents(ctx context.Context, filter StudentFilter) ([]models.User, error)
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByIDAndRole(ctx context.Context, id uint, role string) (models.User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id uint, role string, updates map[string]interface{}) (models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs the user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) SearchStudents(ctx context.Context, filter StudentFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).Where("role = ?", models.RoleStudent)

	if filter.Grade != "" {
		query = query.Where("grade = ?", filter.Grade)
	}

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var students []models.User
	err := query.Order("name ASC").Find(&students).Error
	return students, err
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetByIDAndRole(ctx context.Context, id uint, role string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, role).
		First(&user).Error
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Normalize()
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, id uint, role string, updates map[string]interface{}) (models.User, error) {
	tx := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND role = ?", id, role)

	result := tx.Updates(updates)
	if result.Error != nil {
		return models.User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.User{}, gorm.ErrRecordNotFound
	}

	return r.GetByIDAndRole(ctx, id, role)
}

