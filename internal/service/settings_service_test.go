package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edudesk/admin-api/internal/dto"
	"github.com/edudesk/admin-api/internal/models"
	"github.com/edudesk/admin-api/internal/repository"
)

func newSettingsService(db *gorm.DB, recorder *recorderStub) SettingsService {
	return NewSettingsService(
		repository.NewUserRepository(db),
		recorder,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)
}

func strPtr(v string) *string {
	return &v
}

func TestGetProfileIsAdminScoped(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettingsService(db, &recorderStub{})
	ctx := context.Background()

	admin := seedAdmin(t, db, "root")
	teacher := seedTeacher(t, db, "vik")

	profile, err := svc.GetProfile(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, "root", profile.Name)

	_, err = svc.GetProfile(ctx, teacher.ID)
	require.ErrorIs(t, err, ErrAdminNotFound)

	_, err = svc.GetProfile(ctx, 999)
	require.ErrorIs(t, err, ErrAdminNotFound)
}

func TestUpdateProfileChangesFieldsAndAudits(t *testing.T) {
	db := setupTestDB(t)
	recorder := &recorderStub{}
	svc := newSettingsService(db, recorder)
	ctx := context.Background()

	admin := seedAdmin(t, db, "root")

	updated, err := svc.UpdateProfile(ctx, admin.ID, dto.SettingsUpdateRequest{
		Name:  strPtr("Root Admin"),
		Email: strPtr("root@edudesk.dev"),
	})
	require.NoError(t, err)
	require.Equal(t, "Root Admin", updated.Name)
	require.Equal(t, "root@edudesk.dev", updated.Email)

	entries := recorder.recorded()
	require.Len(t, entries, 1)
	require.Equal(t, models.ActionAdminSettingsUpdated, entries[0].ActionType)
	require.ElementsMatch(t, []string{"name", "email"}, entries[0].Details["updated_fields"])
}

func TestUpdateProfileRejectsTakenEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newSettingsService(db, &recorderStub{})
	ctx := context.Background()

	admin := seedAdmin(t, db, "root")
	seedTeacher(t, db, "wes")

	_, err := svc.UpdateProfile(ctx, admin.ID, dto.SettingsUpdateRequest{
		Email: strPtr("wes@example.com"),
	})
	require.ErrorIs(t, err, ErrEmailTaken)

	// Keeping your own address is not a conflict.
	_, err = svc.UpdateProfile(ctx, admin.ID, dto.SettingsUpdateRequest{
		Email: strPtr(admin.Email),
	})
	require.NoError(t, err)
}

func TestUpdateProfileEmptyPayloadReturnsCurrent(t *testing.T) {
	db := setupTestDB(t)
	recorder := &recorderStub{}
	svc := newSettingsService(db, recorder)

	admin := seedAdmin(t, db, "root")

	profile, err := svc.UpdateProfile(context.Background(), admin.ID, dto.SettingsUpdateRequest{})
	require.NoError(t, err)
	require.Equal(t, "root", profile.Name)
}
