package dto

import "time"

// NameCount is one bucket of a distribution.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CourseStatusCounts breaks courses down by approval status.
type CourseStatusCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

// ReportResponse is the aggregate report served to the admin dashboard.
type ReportResponse struct {
	CourseStatusCounts       CourseStatusCounts `json:"course_status_counts"`
	SubjectDistribution      []NameCount        `json:"subject_distribution"`
	GradeDistribution        []NameCount        `json:"grade_distribution"`
	CoursesPerTeacher        []NameCount        `json:"courses_per_teacher"`
	TotalStudents            int                `json:"total_students"`
	StudentGradeDistribution []NameCount        `json:"student_grade_distribution"`
	GeneratedAt              time.Time          `json:"generated_at"`
	CacheHit                 bool               `json:"cache_hit"`
}

// OverviewResponse is the headline counts block for the admin landing page.
type OverviewResponse struct {
	TeacherCount    int64 `json:"teacher_count"`
	StudentCount    int64 `json:"student_count"`
	CourseCount     int64 `json:"course_count"`
	EnrollmentCount int64 `json:"enrollment_count"`
}
