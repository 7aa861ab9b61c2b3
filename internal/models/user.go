package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role discriminates the account variants stored in the users table.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User represents any platform account: admin, teacher or student.
// CourseIDs is meaningful only for teachers, EnrollmentIDs and Grade only
// for students; Normalize clears whichever set does not match the role.
type User struct {
	ID            uint                     `gorm:"primaryKey" json:"id"`
	Name          string                   `gorm:"size:255;not null" json:"name"`
	Email         string                   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role          string                   `gorm:"size:16;not null;index" json:"role"`
	Grade         string                   `gorm:"size:32" json:"grade,omitempty"`
	CourseIDs     datatypes.JSONSlice[uint] `gorm:"type:json" json:"courses"`
	EnrollmentIDs datatypes.JSONSlice[uint] `gorm:"type:json" json:"enrollments"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// Normalize clears the reference lists that do not apply to the user's role.
func (u *User) Normalize() {
	switch u.Role {
	case RoleTeacher:
		u.Grade = ""
		u.EnrollmentIDs = nil
		if u.CourseIDs == nil {
			u.CourseIDs = datatypes.JSONSlice[uint]{}
		}
	case RoleStudent:
		u.CourseIDs = nil
		if u.EnrollmentIDs == nil {
			u.EnrollmentIDs = datatypes.JSONSlice[uint]{}
		}
	default:
		u.Grade = ""
		u.CourseIDs = nil
		u.EnrollmentIDs = nil
	}
}

// HasID reports whether the reference list contains the given identifier.
func HasID(list []uint, id uint) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

// AppendID adds an identifier to a reference list unless already present.
func AppendID(list []uint, id uint) []uint {
	if HasID(list, id) {
		return list
	}
	return append(list, id)
}

// RemoveID drops every occurrence of the identifier from the reference list.
func RemoveID(list []uint, id uint) []uint {
	out := make([]uint, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
