package dto

import (
	"encoding/json"
	"time"

	"github.com/edudesk/admin-api/internal/models"
)

// OptionalUint distinguishes "absent" from "explicitly null" in patch
// payloads, so a teacher can be unassigned by sending teacher_id: null.
type OptionalUint struct {
	Set   bool
	Value *uint
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalUint) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v uint
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// CourseCreateRequest captures the payload for creating a course.
type CourseCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Grade       string `json:"grade"`
	Syllabus    string `json:"syllabus"`
	Resources   string `json:"resources"`
	TeacherID   uint   `json:"teacher_id" validate:"required,gt=0"`
}

// CourseUpdateRequest captures partial update payloads for courses.
type CourseUpdateRequest struct {
	Name        *string      `json:"name" validate:"omitempty,min=1"`
	Description *string      `json:"description"`
	Subject     *string      `json:"subject"`
	Grade       *string      `json:"grade"`
	Syllabus    *string      `json:"syllabus"`
	Resources   *string      `json:"resources"`
	Teacher     OptionalUint `json:"teacher_id"`
}

// TeacherSummary is the compact teacher shape embedded in course responses.
type TeacherSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StudentSummary is the compact student shape embedded in course responses.
type StudentSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Grade string `json:"grade"`
}

// CourseResponse serializes a course, optionally with teacher and student summaries.
type CourseResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Subject     string           `json:"subject"`
	Grade       string           `json:"grade"`
	Syllabus    string           `json:"syllabus"`
	Resources   string           `json:"resources"`
	Status      string           `json:"status"`
	TeacherID   *uint            `json:"teacher_id"`
	Teacher     *TeacherSummary  `json:"teacher,omitempty"`
	StudentIDs  []uint           `json:"students"`
	Students    []StudentSummary `json:"student_details,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewCourseResponse converts a course model into a DTO.
func NewCourseResponse(course models.Course) CourseResponse {
	return CourseResponse{
		ID:          course.ID,
		Name:        course.Name,
		Description: course.Description,
		Subject:     course.Subject,
		Grade:       course.Grade,
		Syllabus:    course.Syllabus,
		Resources:   course.Resources,
		Status:      course.Status,
		TeacherID:   course.TeacherID,
		StudentIDs:  idsOrEmpty(course.StudentIDs),
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
}

// NewTeacherSummary converts a user model into the compact teacher shape.
func NewTeacherSummary(user models.User) TeacherSummary {
	return TeacherSummary{ID: user.ID, Name: user.Name, Email: user.Email}
}

// NewStudentSummary converts a user model into the compact student shape.
func NewStudentSummary(user models.User) StudentSummary {
	return StudentSummary{ID: user.ID, Name: user.Name, Email: user.Email, Grade: user.Grade}
}
