package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/edudesk/admin-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.ActivityLog{}))
	return db
}

func createTeacher(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	teacher := models.User{Name: name, Email: name + "@example.com", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)
	return teacher
}

func createStudent(t *testing.T, db *gorm.DB, name, grade string) models.User {
	t.Helper()
	student := models.User{Name: name, Email: name + "@example.com", Role: models.RoleStudent, Grade: grade}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func createCourse(t *testing.T, db *gorm.DB, name, status string, teacherID *uint) models.Course {
	t.Helper()
	course := models.Course{Name: name, Subject: "Math", Status: status, TeacherID: teacherID}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return user
}

func reloadCourse(t *testing.T, db *gorm.DB, id uint) models.Course {
	t.Helper()
	var course models.Course
	require.NoError(t, db.First(&course, id).Error)
	return course
}

func TestAssignCourseTeacherLinksBothSides(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	teacher := createTeacher(t, db, "amara")
	course := createCourse(t, db, "Algebra", models.CourseStatusApproved, nil)

	require.NoError(t, repo.AssignCourseTeacher(ctx, course.ID, teacher.ID, nil))

	require.Equal(t, []uint{course.ID}, []uint(reloadUser(t, db, teacher.ID).CourseIDs))
	updated := reloadCourse(t, db, course.ID)
	require.NotNil(t, updated.TeacherID)
	require.Equal(t, teacher.ID, *updated.TeacherID)
}

func TestAssignCourseTeacherDetachesFormerTeacher(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	former := createTeacher(t, db, "bruno")
	next := createTeacher(t, db, "carla")
	course := createCourse(t, db, "Geometry", models.CourseStatusApproved, &former.ID)
	require.NoError(t, repo.AssignCourseTeacher(ctx, course.ID, former.ID, nil))

	require.NoError(t, repo.AssignCourseTeacher(ctx, course.ID, next.ID, &former.ID))

	require.Empty(t, reloadUser(t, db, former.ID).CourseIDs)
	require.Equal(t, []uint{course.ID}, []uint(reloadUser(t, db, next.ID).CourseIDs))
	updated := reloadCourse(t, db, course.ID)
	require.Equal(t, next.ID, *updated.TeacherID)
}

func TestReassignCourseTeacherMovesListEntry(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	oldTeacher := createTeacher(t, db, "dora")
	newTeacher := createTeacher(t, db, "edgar")
	course := createCourse(t, db, "Biology", models.CourseStatusApproved, &oldTeacher.ID)
	require.NoError(t, repo.ReassignCourseTeacher(ctx, course.ID, nil, &oldTeacher.ID))

	require.NoError(t, repo.ReassignCourseTeacher(ctx, course.ID, &oldTeacher.ID, &newTeacher.ID))

	require.Empty(t, reloadUser(t, db, oldTeacher.ID).CourseIDs)
	require.Equal(t, []uint{course.ID}, []uint(reloadUser(t, db, newTeacher.ID).CourseIDs))
}

func TestEnrollLinksBothSides(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	student := createStudent(t, db, "farah", "8")
	course := createCourse(t, db, "Chemistry", models.CourseStatusApproved, nil)

	require.NoError(t, repo.Enroll(ctx, student.ID, course.ID))

	require.Equal(t, []uint{course.ID}, []uint(reloadUser(t, db, student.ID).EnrollmentIDs))
	require.Equal(t, []uint{student.ID}, []uint(reloadCourse(t, db, course.ID).StudentIDs))
}

func TestRepairEnrollmentHealsOneSidedLink(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	student := createStudent(t, db, "gina", "9")
	course := createCourse(t, db, "Physics", models.CourseStatusApproved, nil)

	// Simulate a half-written link: only the student side exists.
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", student.ID).
		Update("enrollment_ids", datatypes.JSONSlice[uint]{course.ID}).Error)

	require.NoError(t, repo.RepairEnrollment(ctx, student.ID, course.ID))

	require.Equal(t, []uint{course.ID}, []uint(reloadUser(t, db, student.ID).EnrollmentIDs))
	require.Equal(t, []uint{student.ID}, []uint(reloadCourse(t, db, course.ID).StudentIDs))

	// Repairing a healthy pair must not duplicate entries.
	require.NoError(t, repo.RepairEnrollment(ctx, student.ID, course.ID))
	require.Len(t, reloadUser(t, db, student.ID).EnrollmentIDs, 1)
	require.Len(t, reloadCourse(t, db, course.ID).StudentIDs, 1)
}

func TestUnenrollRemovesBothSides(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	student := createStudent(t, db, "hana", "7")
	course := createCourse(t, db, "Art", models.CourseStatusApproved, nil)
	require.NoError(t, repo.Enroll(ctx, student.ID, course.ID))

	require.NoError(t, repo.Unenroll(ctx, student.ID, course.ID))

	require.Empty(t, reloadUser(t, db, student.ID).EnrollmentIDs)
	require.Empty(t, reloadCourse(t, db, course.ID).StudentIDs)
}

func TestDeleteCourseCascadeCleansAllReferences(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	teacher := createTeacher(t, db, "ines")
	course := createCourse(t, db, "History", models.CourseStatusApproved, nil)
	require.NoError(t, repo.AssignCourseTeacher(ctx, course.ID, teacher.ID, nil))

	first := createStudent(t, db, "jon", "8")
	second := createStudent(t, db, "kira", "8")
	require.NoError(t, repo.Enroll(ctx, first.ID, course.ID))
	require.NoError(t, repo.Enroll(ctx, second.ID, course.ID))

	require.NoError(t, repo.DeleteCourseCascade(ctx, course.ID))

	var count int64
	require.NoError(t, db.Model(&models.Course{}).Where("id = ?", course.ID).Count(&count).Error)
	require.Zero(t, count)
	require.Empty(t, reloadUser(t, db, teacher.ID).CourseIDs)
	require.Empty(t, reloadUser(t, db, first.ID).EnrollmentIDs)
	require.Empty(t, reloadUser(t, db, second.ID).EnrollmentIDs)
}

func TestDeleteStudentCascadePullsCourseRosters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	student := createStudent(t, db, "lior", "9")
	first := createCourse(t, db, "Music", models.CourseStatusApproved, nil)
	second := createCourse(t, db, "Drama", models.CourseStatusApproved, nil)
	require.NoError(t, repo.Enroll(ctx, student.ID, first.ID))
	require.NoError(t, repo.Enroll(ctx, student.ID, second.ID))

	require.NoError(t, repo.DeleteStudentCascade(ctx, student.ID))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", student.ID).Count(&count).Error)
	require.Zero(t, count)
	require.Empty(t, reloadCourse(t, db, first.ID).StudentIDs)
	require.Empty(t, reloadCourse(t, db, second.ID).StudentIDs)
}

func TestDeleteTeacherIsRoleScoped(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	student := createStudent(t, db, "mira", "8")

	err := repo.DeleteTeacher(ctx, student.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	require.Equal(t, student.ID, reloadUser(t, db, student.ID).ID)

	teacher := createTeacher(t, db, "noor")
	require.NoError(t, repo.DeleteTeacher(ctx, teacher.ID))
}

func TestDeleteTeacherWithCoursesOnlyDeletesOwned(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	teacher := createTeacher(t, db, "omar")
	other := createTeacher(t, db, "pia")

	owned := createCourse(t, db, "Calculus", models.CourseStatusApproved, nil)
	require.NoError(t, repo.AssignCourseTeacher(ctx, owned.ID, teacher.ID, nil))
	foreign := createCourse(t, db, "Statistics", models.CourseStatusApproved, nil)
	require.NoError(t, repo.AssignCourseTeacher(ctx, foreign.ID, other.ID, nil))

	student := createStudent(t, db, "quinn", "10")
	require.NoError(t, repo.Enroll(ctx, student.ID, owned.ID))

	deleted, err := repo.DeleteTeacherWithCourses(ctx, teacher.ID, []uint{owned.ID, foreign.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	var count int64
	require.NoError(t, db.Model(&models.Course{}).Where("id = ?", owned.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.Course{}).Where("id = ?", foreign.ID).Count(&count).Error)
	require.Equal(t, int64(1), count, "course owned by another teacher must survive")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", teacher.ID).Count(&count).Error)
	require.Zero(t, count)
	require.Empty(t, reloadUser(t, db, student.ID).EnrollmentIDs)
}

func TestDeleteTeacherOrphanCoursesKeepsCourses(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	teacher := createTeacher(t, db, "rosa")
	first := createCourse(t, db, "Latin", models.CourseStatusApproved, nil)
	second := createCourse(t, db, "Greek", models.CourseStatusPending, nil)
	require.NoError(t, repo.AssignCourseTeacher(ctx, first.ID, teacher.ID, nil))
	require.NoError(t, repo.AssignCourseTeacher(ctx, second.ID, teacher.ID, nil))

	orphaned, err := repo.DeleteTeacherOrphanCourses(ctx, teacher.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), orphaned)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", teacher.ID).Count(&count).Error)
	require.Zero(t, count)
	require.Nil(t, reloadCourse(t, db, first.ID).TeacherID)
	require.Nil(t, reloadCourse(t, db, second.ID).TeacherID)
}
