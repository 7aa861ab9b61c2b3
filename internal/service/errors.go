package service

import (
	"errors"
	"fmt"

	"github.com/edudesk/admin-api/internal/dto"
)

// Sentinel errors shared across the admin services. Handlers translate them
// with errors.Is / errors.As into HTTP status codes.
var (
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrCourseNotFound  = errors.New("course not found")
	ErrAdminNotFound   = errors.New("admin not found")

	// ErrNotATeacher indicates the target account exists but carries the
	// wrong role for the requested assignment.
	ErrNotATeacher = errors.New("cannot assign course to a non-teacher account")

	// ErrInvalidTeacherRef covers both a missing account and a wrong-role
	// account when referenced from a course payload.
	ErrInvalidTeacherRef = errors.New("assigned teacher not found or is not a teacher")

	ErrCourseNotApproved = errors.New("cannot enroll student in a non-approved course")

	// ErrCoursesListMissing rejects a delete-with-courses request whose
	// payload omitted the course id list. An explicit empty list is valid
	// and deletes the teacher alone.
	ErrCoursesListMissing = errors.New("courses_to_delete must be an array")
	ErrAlreadyAssigned   = errors.New("course already assigned to this teacher")
	ErrAlreadyEnrolled   = errors.New("student is already enrolled in this course")
	ErrEmailTaken        = errors.New("email already in use by another account")
)

// TeacherHasCoursesError blocks simple teacher removal and carries the
// courses the caller must deal with first.
type TeacherHasCoursesError struct {
	Courses []dto.CourseRef
}

func (e *TeacherHasCoursesError) Error() string {
	return fmt.Sprintf("teacher has %d assigned courses; confirm deletion or reassign them first", len(e.Courses))
}
