package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
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

func seedTeacher(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	teacher := models.User{Name: name, Email: name + "@example.com", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)
	return teacher
}

func seedStudent(t *testing.T, db *gorm.DB, name, grade string) models.User {
	t.Helper()
	student := models.User{Name: name, Email: name + "@example.com", Role: models.RoleStudent, Grade: grade}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func seedAdmin(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	admin := models.User{Name: name, Email: name + "@example.com", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func seedCourse(t *testing.T, db *gorm.DB, name, subject, status string) models.Course {
	t.Helper()
	course := models.Course{Name: name, Subject: subject, Status: status}
	require.NoError(t, db.Create(&course).Error)
	return course
}

// recorderStub captures audit entries without touching storage.
type recorderStub struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

func (r *recorderStub) Record(_ context.Context, entry ActivityEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recorderStub) recorded() []ActivityEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ActivityEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *recorderStub) lastAction() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return ""
	}
	return r.entries[len(r.entries)-1].ActionType
}

var testActor = ActivityActor{ID: 99, Name: "Root Admin"}
