package models

import (
	"time"

	"gorm.io/datatypes"
)

// Action type tags recorded in the activity log. The set is closed; feed
// consumers key display strings off these values.
const (
	ActionTeacherAdded              = "TEACHER_ADDED"
	ActionTeacherUpdated            = "TEACHER_UPDATED"
	ActionTeacherRemoved            = "TEACHER_REMOVED"
	ActionTeacherRemovedWithCourses = "TEACHER_REMOVED_WITH_COURSES"
	ActionTeacherRemovedKeepCourses = "TEACHER_REMOVED_KEEP_COURSES"
	ActionCourseAdded               = "COURSE_ADDED"
	ActionCourseUpdated             = "COURSE_UPDATED"
	ActionCourseApproved            = "COURSE_APPROVED"
	ActionCourseRejected            = "COURSE_REJECTED"
	ActionCourseAssignedTeacher     = "COURSE_ASSIGNED_TEACHER"
	ActionCourseRemoved             = "COURSE_REMOVED"
	ActionStudentAdded              = "STUDENT_ADDED"
	ActionStudentUpdated            = "STUDENT_UPDATED"
	ActionStudentRemoved            = "STUDENT_REMOVED"
	ActionStudentEnrolled           = "STUDENT_ENROLLED"
	ActionStudentUnenrolled         = "STUDENT_UNENROLLED"
	ActionAdminSettingsUpdated      = "ADMIN_SETTINGS_UPDATED"
)

// Target types referenced by activity entries.
const (
	TargetUser   = "user"
	TargetCourse = "course"
	TargetSystem = "system"
)

// ActivityLog is an immutable audit record of an admin action. Entries are
// only ever created and read newest-first; they are never updated or deleted.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    uint              `gorm:"not null" json:"actor_id"`
	ActorName  string            `gorm:"size:255;not null" json:"actor_name"`
	ActionType string            `gorm:"size:64;not null" json:"action_type"`
	TargetType string            `gorm:"size:32" json:"target_type"`
	TargetID   *uint             `json:"target_id"`
	TargetName string            `gorm:"size:255" json:"target_name"`
	Details    datatypes.JSONMap `gorm:"type:json" json:"details"`
	CreatedAt  time.Time         `gorm:"index:idx_activity_created_at,sort:desc" json:"created_at"`
}
