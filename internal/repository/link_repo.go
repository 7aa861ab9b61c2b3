package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/edudesk/admin-api/internal/models"
)

// LinkRepository holds the cross-reference procedures that keep the user and
// course directories mutually consistent. Every method that touches more than
// one record runs inside a single transaction, so a partial failure never
// leaves a one-sided reference behind.
type LinkRepository interface {
	AssignCourseTeacher(ctx context.Context, courseID, teacherID uint, formerTeacherID *uint) error
	ReassignCourseTeacher(ctx context.Context, courseID uint, oldTeacherID, newTeacherID *uint) error
	Enroll(ctx context.Context, studentID, courseID uint) error
	RepairEnrollment(ctx context.Context, studentID, courseID uint) error
	Unenroll(ctx context.Context, studentID, courseID uint) error
	DeleteCourseCascade(ctx context.Context, courseID uint) error
	DeleteStudentCascade(ctx context.Context, studentID uint) error
	DeleteTeacher(ctx context.Context, teacherID uint) error
	DeleteTeacherWithCourses(ctx context.Context, teacherID uint, courseIDs []uint) (int64, error)
	DeleteTeacherOrphanCourses(ctx context.Context, teacherID uint) (int64, error)
}

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository constructs the relationship repository.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

// AssignCourseTeacher appends the course to the teacher's list, points the
// course at the teacher, and detaches the former teacher when one existed.
func (r *linkRepository) AssignCourseTeacher(ctx context.Context, courseID, teacherID uint, formerTeacherID *uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := appendTeacherCourse(tx, teacherID, courseID); err != nil {
			return err
		}
		if err := tx.Model(&models.Course{}).
			Where("id = ?", courseID).
			Update("teacher_id", teacherID).Error; err != nil {
			return err
		}
		if formerTeacherID != nil && *formerTeacherID != teacherID {
			return pullTeacherCourse(tx, *formerTeacherID, courseID)
		}
		return nil
	})
}

// ReassignCourseTeacher moves the course between teacher lists after the
// course row itself has already been patched. Either side may be nil.
func (r *linkRepository) ReassignCourseTeacher(ctx context.Context, courseID uint, oldTeacherID, newTeacherID *uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if oldTeacherID != nil {
			if err := pullTeacherCourse(tx, *oldTeacherID, courseID); err != nil {
				return err
			}
		}
		if newTeacherID != nil {
			return appendTeacherCourse(tx, *newTeacherID, courseID)
		}
		return nil
	})
}

// Enroll links both sides of the student ↔ course relationship.
func (r *linkRepository) Enroll(ctx context.Context, studentID, courseID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := appendStudentEnrollment(tx, studentID, courseID); err != nil {
			return err
		}
		return appendCourseStudent(tx, courseID, studentID)
	})
}

// RepairEnrollment re-adds whichever side of an existing link is missing.
// Both appends are idempotent, so calling it on a healthy pair is a no-op.
func (r *linkRepository) RepairEnrollment(ctx context.Context, studentID, courseID uint) error {
	return r.Enroll(ctx, studentID, courseID)
}

// Unenroll removes both sides of the student ↔ course relationship.
func (r *linkRepository) Unenroll(ctx context.Context, studentID, courseID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := pullStudentEnrollment(tx, studentID, courseID); err != nil {
			return err
		}
		return pullCourseStudent(tx, courseID, studentID)
	})
}

// DeleteCourseCascade removes the course, detaches it from the former
// teacher's list and pulls it from every enrolled student's enrollments.
func (r *linkRepository) DeleteCourseCascade(ctx context.Context, courseID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCourseCascade(tx, courseID)
	})
}

// DeleteStudentCascade removes the student and pulls their id from every
// enrolled course's student list.
func (r *linkRepository) DeleteStudentCascade(ctx context.Context, studentID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student models.User
		if err := tx.Where("id = ? AND role = ?", studentID, models.RoleStudent).
			First(&student).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, studentID).Error; err != nil {
			return err
		}
		for _, courseID := range student.EnrollmentIDs {
			if err := pullCourseStudent(tx, courseID, studentID); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteTeacher removes a teacher record without touching any courses. The
// caller is responsible for verifying the teacher has none.
func (r *linkRepository) DeleteTeacher(ctx context.Context, teacherID uint) error {
	result := r.db.WithContext(ctx).
		Where("role = ?", models.RoleTeacher).
		Delete(&models.User{}, teacherID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteTeacherWithCourses deletes the listed courses, scoped to those the
// teacher actually owns, then the teacher. Ids that do not belong to the
// teacher are silently ignored. Returns the number of courses deleted.
func (r *linkRepository) DeleteTeacherWithCourses(ctx context.Context, teacherID uint, courseIDs []uint) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned []models.Course
		if len(courseIDs) > 0 {
			if err := tx.Where("id IN ? AND teacher_id = ?", courseIDs, teacherID).
				Find(&owned).Error; err != nil {
				return err
			}
		}
		for _, course := range owned {
			if err := deleteCourseCascade(tx, course.ID); err != nil {
				return err
			}
			deleted++
		}
		return tx.Delete(&models.User{}, teacherID).Error
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// DeleteTeacherOrphanCourses sets teacher_id to NULL on every course the
// teacher owns, then deletes the teacher. Returns the orphaned course count.
func (r *linkRepository) DeleteTeacherOrphanCourses(ctx context.Context, teacherID uint) (int64, error) {
	var orphaned int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Course{}).
			Where("teacher_id = ?", teacherID).
			Update("teacher_id", nil)
		if result.Error != nil {
			return result.Error
		}
		orphaned = result.RowsAffected
		return tx.Delete(&models.User{}, teacherID).Error
	})
	if err != nil {
		return 0, err
	}
	return orphaned, nil
}

func deleteCourseCascade(tx *gorm.DB, courseID uint) error {
	var course models.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.Course{}, courseID).Error; err != nil {
		return err
	}
	if course.TeacherID != nil {
		if err := pullTeacherCourse(tx, *course.TeacherID, courseID); err != nil {
			return err
		}
	}
	for _, studentID := range course.StudentIDs {
		if err := pullStudentEnrollment(tx, studentID, courseID); err != nil {
			return err
		}
	}
	return nil
}

func appendTeacherCourse(tx *gorm.DB, teacherID, courseID uint) error {
	var teacher models.User
	if err := tx.First(&teacher, teacherID).Error; err != nil {
		return err
	}
	teacher.CourseIDs = models.AppendID(teacher.CourseIDs, courseID)
	return tx.Model(&models.User{}).
		Where("id = ?", teacherID).
		Update("course_ids", teacher.CourseIDs).Error
}

func pullTeacherCourse(tx *gorm.DB, teacherID, courseID uint) error {
	var teacher models.User
	if err := tx.First(&teacher, teacherID).Error; err != nil {
		// Dangling references are tolerated on cleanup paths.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	teacher.CourseIDs = models.RemoveID(teacher.CourseIDs, courseID)
	return tx.Model(&models.User{}).
		Where("id = ?", teacherID).
		Update("course_ids", teacher.CourseIDs).Error
}

func appendStudentEnrollment(tx *gorm.DB, studentID, courseID uint) error {
	var student models.User
	if err := tx.First(&student, studentID).Error; err != nil {
		return err
	}
	student.EnrollmentIDs = models.AppendID(student.EnrollmentIDs, courseID)
	return tx.Model(&models.User{}).
		Where("id = ?", studentID).
		Update("enrollment_ids", student.EnrollmentIDs).Error
}

func pullStudentEnrollment(tx *gorm.DB, studentID, courseID uint) error {
	var student models.User
	if err := tx.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	student.EnrollmentIDs = models.RemoveID(student.EnrollmentIDs, courseID)
	return tx.Model(&models.User{}).
		Where("id = ?", studentID).
		Update("enrollment_ids", student.EnrollmentIDs).Error
}

func appendCourseStudent(tx *gorm.DB, courseID, studentID uint) error {
	var course models.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		return err
	}
	course.StudentIDs = models.AppendID(course.StudentIDs, studentID)
	return tx.Model(&models.Course{}).
		Where("id = ?", courseID).
		Update("student_ids", course.StudentIDs).Error
}

func pullCourseStudent(tx *gorm.DB, courseID, studentID uint) error {
	var course models.Course
	if err := tx.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	course.StudentIDs = models.RemoveID(course.StudentIDs, studentID)
	return tx.Model(&models.Course{}).
		Where("id = ?", courseID).
		Update("student_ids", course.StudentIDs).Error
}
