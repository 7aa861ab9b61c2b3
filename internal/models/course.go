package models

import (
	"time"

	"gorm.io/datatypes"
)

// Course status values. Courses start pending and may be re-approved or
// re-rejected at any time; the admin override is deliberate.
const (
	CourseStatusPending  = "pending"
	CourseStatusApproved = "approved"
	CourseStatusRejected = "rejected"
)

// Course represents one offered course. TeacherID is nil while the course is
// unassigned (orphaned); StudentIDs mirrors the enrolled students' own
// enrollment lists.
type Course struct {
	ID          uint                     `gorm:"primaryKey" json:"id"`
	Name        string                   `gorm:"size:255;not null" json:"name"`
	Description string                   `json:"description"`
	Subject     string                   `gorm:"size:128;index" json:"subject"`
	Grade       string                   `gorm:"size:32;index" json:"grade"`
	Syllabus    string                   `json:"syllabus"`
	Resources   string                   `json:"resources"`
	Status      string                   `gorm:"size:16;not null;default:pending;index" json:"status"`
	TeacherID   *uint                    `gorm:"index" json:"teacher_id"`
	StudentIDs  datatypes.JSONSlice[uint] `gorm:"type:json" json:"students"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}
