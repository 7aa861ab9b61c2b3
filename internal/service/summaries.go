package service

import (
	"context"

	"github.com/edudesk/admin-api/internal/dto"
	"github.com/edudesk/admin-api/internal/models"
	"github.com/edudesk/admin-api/internal/repository"
)

// courseSummaries converts course rows into the compact embedded shape,
// resolving teacher display names in one batched lookup.
func courseSummaries(ctx context.Context, users repository.UserRepository, courses []models.Course) ([]dto.CourseSummary, error) {
	teacherIDs := make([]uint, 0, len(courses))
	for _, course := range courses {
		if course.TeacherID != nil && !models.HasID(teacherIDs, *course.TeacherID) {
			teacherIDs = append(teacherIDs, *course.TeacherID)
		}
	}

	names := map[uint]string{}
	if len(teacherIDs) > 0 {
		teachers, err := users.GetByIDs(ctx, teacherIDs)
		if err != nil {
			return nil, err
		}
		for _, teacher := range teachers {
			names[teacher.ID] = teacher.Name
		}
	}

	summaries := make([]dto.CourseSummary, 0, len(courses))
	for _, course := range courses {
		summary := dto.CourseSummary{
			ID:      course.ID,
			Name:    course.Name,
			Subject: course.Subject,
			Status:  course.Status,
		}
		if course.TeacherID != nil {
			summary.TeacherName = names[*course.TeacherID]
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func courseRefs(courses []models.Course) []dto.CourseRef {
	refs := make([]dto.CourseRef, 0, len(courses))
	for _, course := range courses {
		refs = append(refs, dto.CourseRef{ID: course.ID, Name: course.Name})
	}
	return refs
}
