package dto

import (
	"time"

	"github.com/edudesk/admin-api/internal/models"
)

// TeacherCreateRequest captures the payload for creating a teacher account.
type TeacherCreateRequest struct {
	Name  string `json:"name" validate:"required,min=1"`
	Email string `json:"email" validate:"required,email"`
}

// TeacherUpdateRequest captures partial update payloads for teachers.
type TeacherUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// StudentCreateRequest captures the payload for creating a student account.
type StudentCreateRequest struct {
	Name  string `json:"name" validate:"required,min=1"`
	Email string `json:"email" validate:"required,email"`
	Grade string `json:"grade" validate:"required,min=1"`
}

// StudentUpdateRequest captures partial update payloads for students.
type StudentUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Grade *string `json:"grade" validate:"omitempty,min=1"`
}

// SettingsUpdateRequest patches the calling admin's own profile.
type SettingsUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// AssignCourseRequest names the course to assign to a teacher.
type AssignCourseRequest struct {
	CourseID uint `json:"course_id" validate:"required,gt=0"`
}

// RemoveWithCoursesRequest lists the course ids to delete together with a
// teacher. A nil list (field absent) is rejected by the service; an explicit
// empty list is valid.
type RemoveWithCoursesRequest struct {
	CourseIDs []uint `json:"courses_to_delete"`
}

// CourseRef is a minimal course reference used in conflict payloads and
// teacher responses.
type CourseRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CourseSummary is the compact course shape embedded in user responses.
type CourseSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	Status      string `json:"status"`
	TeacherName string `json:"teacher_name,omitempty"`
}

// TeacherResponse serializes a teacher account with taught-course summaries.
type TeacherResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      string          `json:"role"`
	CourseIDs []uint          `json:"courses"`
	Courses   []CourseSummary `json:"course_details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StudentResponse serializes a student account, optionally with enrollment summaries.
type StudentResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Role          string          `json:"role"`
	Grade         string          `json:"grade"`
	EnrollmentIDs []uint          `json:"enrollments"`
	Enrollments   []CourseSummary `json:"enrollment_details,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AdminResponse serializes the admin's own profile for the settings endpoints.
type AdminResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTeacherResponse converts a user model into a teacher DTO.
func NewTeacherResponse(user models.User, courses []CourseSummary) TeacherResponse {
	return TeacherResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CourseIDs: idsOrEmpty(user.CourseIDs),
		Courses:   courses,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewStudentResponse converts a user model into a student DTO.
func NewStudentResponse(user models.User, enrollments []CourseSummary) StudentResponse {
	return StudentResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		Grade:         user.Grade,
		EnrollmentIDs: idsOrEmpty(user.EnrollmentIDs),
		Enrollments:   enrollments,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// NewAdminResponse converts a user model into an admin profile DTO.
func NewAdminResponse(user models.User) AdminResponse {
	return AdminResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func idsOrEmpty(ids []uint) []uint {
	if ids == nil {
		return []uint{}
	}
	return ids
}
