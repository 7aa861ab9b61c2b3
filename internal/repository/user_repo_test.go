package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edudesk/admin-api/internal/models"
)

func TestSearchStudentsFiltersGradeAndName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createStudent(t, db, "alice", "8")
	createStudent(t, db, "bob", "8")
	createStudent(t, db, "carol", "9")
	createTeacher(t, db, "alicia")

	students, err := repo.SearchStudents(ctx, StudentFilter{Grade: "8"})
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, "alice", students[0].Name, "expected name ascending order")

	students, err = repo.SearchStudents(ctx, StudentFilter{Search: "ALI"})
	require.NoError(t, err)
	require.Len(t, students, 1, "teachers must not appear in student search")
	require.Equal(t, "alice", students[0].Name)
}

func TestEmailTakenExcludesOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	teacher := createTeacher(t, db, "dana")

	taken, err := repo.EmailTaken(ctx, "Dana@Example.com", 0)
	require.NoError(t, err)
	require.True(t, taken)

	taken, err = repo.EmailTaken(ctx, "dana@example.com", teacher.ID)
	require.NoError(t, err)
	require.False(t, taken)
}

func TestCreateNormalizesRoleFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	teacher := models.User{
		Name:  "eli",
		Email: "eli@example.com",
		Role:  models.RoleTeacher,
		Grade: "8",
	}
	require.NoError(t, repo.Create(ctx, &teacher))

	stored := reloadUser(t, db, teacher.ID)
	require.Empty(t, stored.Grade, "teachers must not carry a grade")
}

func TestUpdateIsRoleScoped(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	student := createStudent(t, db, "fay", "7")

	_, err := repo.Update(ctx, student.ID, models.RoleTeacher, map[string]interface{}{"name": "nope"})
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	updated, err := repo.Update(ctx, student.ID, models.RoleStudent, map[string]interface{}{"name": "fay updated"})
	require.NoError(t, err)
	require.Equal(t, "fay updated", updated.Name)
}

