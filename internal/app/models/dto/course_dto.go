package dto

import "github.com/yigit/schoolms/internal/app/models"

// CourseRequest is the body of course create/update requests.
// Nil fields were absent from the body.
type CourseRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
}

// Validate checks required fields for the given mode.
func (r *CourseRequest) Validate(mode WriteMode) error {
	errs := NewValidationErrors()
	requireText(errs, "name", r.Name, mode != ModePatch)
	return errs.Err()
}

// Apply copies the supplied fields onto c.
func (r *CourseRequest) Apply(c *models.Course) {
	if r.Name != nil {
		c.Name = trimmed(r.Name)
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
}

// CourseResponse is the flat course representation.
type CourseResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CourseRef is the short course form listed on a lecturer.
type CourseRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CourseDetailResponse is a course with its students and subjects.
type CourseDetailResponse struct {
	CourseResponse
	Students []StudentSummary        `json:"students"`
	Subjects []SubjectDetailResponse `json:"subjects"`
}

// NewCourseResponse maps a course model to its response.
func NewCourseResponse(c *models.Course) CourseResponse {
	return CourseResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

// NewCourseResponses maps a list of courses.
func NewCourseResponses(courses []*models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, NewCourseResponse(c))
	}
	return out
}

// NewCourseDetailResponse maps a course detail.
func NewCourseDetailResponse(d *models.CourseDetail) CourseDetailResponse {
	return CourseDetailResponse{
		CourseResponse: NewCourseResponse(&d.Course),
		Students:       NewStudentSummaries(d.Students),
		Subjects:       NewSubjectDetailResponses(d.Subjects),
	}
}
