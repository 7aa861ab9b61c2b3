package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edudesk/admin-api/internal/models"
)

func TestStudentCreateRequiresGrade(t *testing.T) {
	f := newFixture(t)

	resp, envelope := f.do(t, http.MethodPost, "/api/admin/students", map[string]string{
		"name":  "Lena",
		"email": "lena@example.com",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.False(t, envelope.Success)

	resp, envelope = f.do(t, http.MethodPost, "/api/admin/students", map[string]string{
		"name":  "Lena",
		"email": "lena@example.com",
		"grade": "8",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "8", dataMap(t, envelope)["grade"])
}

func TestStudentListGradeFilter(t *testing.T) {
	f := newFixture(t)

	f.seedStudent(t, "mara", "7")
	f.seedStudent(t, "nico", "8")

	resp, envelope := f.do(t, http.MethodGet, "/api/admin/students?grade=8", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, list, 1)
}

func TestStudentEnrollStatuses(t *testing.T) {
	f := newFixture(t)

	student := f.seedStudent(t, "omar", "9")
	pending := f.seedCourse(t, "Chemistry", models.CourseStatusPending)
	approved := f.seedCourse(t, "Physics", models.CourseStatusApproved)

	resp, envelope := f.do(t, http.MethodPost,
		"/api/admin/students/"+itoa(student.ID)+"/enroll/"+itoa(pending.ID), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "course is not approved for enrollment", envelope.Message)

	resp, _ = f.do(t, http.MethodPost,
		"/api/admin/students/"+itoa(student.ID)+"/enroll/"+itoa(approved.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, envelope = f.do(t, http.MethodPost,
		"/api/admin/students/"+itoa(student.ID)+"/enroll/"+itoa(approved.ID), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "student already enrolled in this course", envelope.Message)

	resp, _ = f.do(t, http.MethodPost,
		"/api/admin/students/999/enroll/"+itoa(approved.ID), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost,
		"/api/admin/students/"+itoa(student.ID)+"/enroll/999", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStudentUnenroll(t *testing.T) {
	f := newFixture(t)

	student := f.seedStudent(t, "pilar", "9")
	course := f.seedCourse(t, "Art", models.CourseStatusApproved)

	resp, _ := f.do(t, http.MethodPost,
		"/api/admin/students/"+itoa(student.ID)+"/enroll/"+itoa(course.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodDelete,
		"/api/admin/students/"+itoa(student.ID)+"/unenroll/"+itoa(course.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.Course
	require.NoError(t, f.db.First(&stored, course.ID).Error)
	require.Empty(t, stored.StudentIDs)
}

func TestStudentRemove(t *testing.T) {
	f := newFixture(t)

	student := f.seedStudent(t, "quil", "6")

	resp, _ := f.do(t, http.MethodDelete, "/api/admin/students/"+itoa(student.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodDelete, "/api/admin/students/"+itoa(student.ID), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
