package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/edudesk/admin-api/internal/handler"
	"github.com/edudesk/admin-api/internal/models"
	"github.com/edudesk/admin-api/internal/repository"
	"github.com/edudesk/admin-api/internal/service"
	"github.com/edudesk/admin-api/internal/utils"
)

// fixture wires real repositories and services over an in-memory database so
// handler tests exercise the full request path below the auth middleware.
type fixture struct {
	db  *gorm.DB
	app *fiber.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.ActivityLog{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	users := repository.NewUserRepository(db)
	courses := repository.NewCourseRepository(db)
	links := repository.NewLinkRepository(db)

	activity := service.NewActivityService(repository.NewActivityLogRepository(db), nil, zerolog.Nop())
	teachers := service.NewTeacherService(users, courses, links, validate, activity, zerolog.Nop())
	students := service.NewStudentService(users, courses, links, validate, activity, zerolog.Nop())
	courseSvc := service.NewCourseService(courses, users, links, validate, activity, zerolog.Nop())
	enrollments := service.NewEnrollmentService(users, courses, links, activity, zerolog.Nop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("user_name", "Test Admin")
		return c.Next()
	})

	handler.NewTeacherHandler(teachers, zerolog.Nop()).Register(app.Group("/api/admin/teachers"))
	handler.NewStudentHandler(students, enrollments, zerolog.Nop()).Register(app.Group("/api/admin/students"))
	handler.NewCourseHandler(courseSvc, zerolog.Nop()).Register(app.Group("/api/admin/courses"))
	handler.NewActivityHandler(activity, zerolog.Nop()).Register(app.Group("/api/admin/activity"))

	return &fixture{db: db, app: app}
}

func (f *fixture) do(t *testing.T, method, target string, body interface{}) (*http.Response, utils.APIResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope utils.APIResponse
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return resp, envelope
}

func (f *fixture) seedTeacher(t *testing.T, name string) models.User {
	t.Helper()
	teacher := models.User{Name: name, Email: name + "@example.com", Role: models.RoleTeacher}
	require.NoError(t, f.db.Create(&teacher).Error)
	return teacher
}

func (f *fixture) seedStudent(t *testing.T, name, grade string) models.User {
	t.Helper()
	student := models.User{Name: name, Email: name + "@example.com", Role: models.RoleStudent, Grade: grade}
	require.NoError(t, f.db.Create(&student).Error)
	return student
}

func (f *fixture) seedCourse(t *testing.T, name, status string) models.Course {
	t.Helper()
	course := models.Course{Name: name, Subject: "General", Status: status}
	require.NoError(t, f.db.Create(&course).Error)
	return course
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// dataMap extracts the envelope data as a generic map.
func dataMap(t *testing.T, envelope utils.APIResponse) map[string]interface{} {
	t.Helper()
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok, "response data is not an object")
	return data
}
