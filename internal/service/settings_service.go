package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edudesk/admin-api/internal/dto"
	"github.com/edudesk/admin-api/internal/models"
	"github.com/edudesk/admin-api/internal/repository"
)

// SettingsService manages the admin's own profile record.
type SettingsService interface {
	GetProfile(ctx context.Context, adminID uint) (dto.AdminResponse, error)
	UpdateProfile(ctx context.Context, adminID uint, payload dto.SettingsUpdateRequest) (dto.AdminResponse, error)
}

type settingsService struct {
	users    repository.UserRepository
	activity ActivityRecorder
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewSettingsService(users repository.UserRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) SettingsService {
	return &settingsService{
		users:    users,
		activity: activity,
		validate: validate,
		logger:   logger.With().Str("component", "settings_service").Logger(),
	}
}

func (s *settingsService) GetProfile(ctx context.Context, adminID uint) (dto.AdminResponse, error) {
	admin, err := s.users.GetByIDAndRole(ctx, adminID, models.RoleAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminResponse{}, ErrAdminNotFound
		}
		return dto.AdminResponse{}, err
	}
	return dto.NewAdminResponse(admin), nil
}

func (s *settingsService) UpdateProfile(ctx context.Context, adminID uint, payload dto.SettingsUpdateRequest) (dto.AdminResponse, error) {
	if err := s.validate.Struct(payload); err != nil {
		return dto.AdminResponse{}, err
	}

	updates := map[string]interface{}{}
	var changed []string
	if payload.Name != nil {
		updates["name"] = *payload.Name
		changed = append(changed, "name")
	}
	if payload.Email != nil {
		taken, err := s.users.EmailTaken(ctx, *payload.Email, adminID)
		if err != nil {
			return dto.AdminResponse{}, err
		}
		if taken {
			return dto.AdminResponse{}, ErrEmailTaken
		}
		updates["email"] = *payload.Email
		changed = append(changed, "email")
	}

	var admin models.User
	var err error
	if len(updates) > 0 {
		admin, err = s.users.Update(ctx, adminID, models.RoleAdmin, updates)
	} else {
		admin, err = s.users.GetByIDAndRole(ctx, adminID, models.RoleAdmin)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminResponse{}, ErrAdminNotFound
		}
		return dto.AdminResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Actor:      ActivityActor{ID: admin.ID, Name: admin.Name},
		ActionType: models.ActionAdminSettingsUpdated,
		TargetType: models.TargetSystem,
		TargetName: "Admin Settings",
		Details:    map[string]interface{}{"updated_fields": changed},
	})

	return dto.NewAdminResponse(admin), nil
}
