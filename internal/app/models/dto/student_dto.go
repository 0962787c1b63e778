package dto

import (
	"time"

	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/relation"
)

// StudentRequest is the body of student create/update requests.
type StudentRequest struct {
	FirstName   *string               `json:"first_name" binding:"omitempty,max=100"`
	LastName    *string               `json:"last_name" binding:"omitempty,max=100"`
	Email       *string               `json:"email" binding:"omitempty,email"`
	DateOfBirth *string               `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Course      *int64                `json:"course"`
	Subjects    relation.Field[int64] `json:"subjects"`
}

// Validate checks field shape. A missing course on create is left to the
// integrity policy.
func (r *StudentRequest) Validate(mode WriteMode) error {
	required := mode != ModePatch
	errs := NewValidationErrors()
	requireText(errs, "first_name", r.FirstName, required)
	requireText(errs, "last_name", r.LastName, required)
	requireText(errs, "email", r.Email, required)
	requireText(errs, "date_of_birth", r.DateOfBirth, required)
	if r.DateOfBirth != nil && trimmed(r.DateOfBirth) != "" {
		if _, err := time.Parse(models.DateLayout, trimmed(r.DateOfBirth)); err != nil {
			errs.AddError("date_of_birth", "date_of_birth must be a date in format YYYY-MM-DD")
		}
	}
	requireID(errs, "course", r.Course, mode == ModeReplace)
	for _, id := range r.Subjects.Items() {
		if id <= 0 {
			errs.AddError("subjects", "subjects must contain positive ids")
			break
		}
	}
	return errs.Err()
}

// Apply copies the supplied scalar fields onto s. Validate must have passed.
func (r *StudentRequest) Apply(s *models.Student) {
	if r.FirstName != nil {
		s.FirstName = trimmed(r.FirstName)
	}
	if r.LastName != nil {
		s.LastName = trimmed(r.LastName)
	}
	if r.Email != nil {
		s.Email = trimmed(r.Email)
	}
	if r.DateOfBirth != nil {
		if dob, err := time.Parse(models.DateLayout, trimmed(r.DateOfBirth)); err == nil {
			s.DateOfBirth = dob
		}
	}
	if r.Course != nil {
		s.CourseID = *r.Course
	}
}

// StudentResponse is the flat student representation with related ids.
type StudentResponse struct {
	ID          int64   `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	DateOfBirth string  `json:"date_of_birth"`
	Course      int64   `json:"course"`
	Subjects    []int64 `json:"subjects"`
}

// StudentSummary is the short student form nested in course and subject details.
type StudentSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// StudentDetailResponse is a student with course and subjects expanded.
type StudentDetailResponse struct {
	ID          int64                   `json:"id"`
	FirstName   string                  `json:"first_name"`
	LastName    string                  `json:"last_name"`
	Email       string                  `json:"email"`
	DateOfBirth string                  `json:"date_of_birth"`
	Course      *CourseResponse         `json:"course"`
	Subjects    []SubjectDetailResponse `json:"subjects"`
}

// NewStudentResponse maps a student model to its response.
func NewStudentResponse(s *models.Student) StudentResponse {
	return StudentResponse{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		DateOfBirth: s.DateOfBirth.Format(models.DateLayout),
		Course:      s.CourseID,
		Subjects:    ids(s.SubjectIDs),
	}
}

// NewStudentResponses maps a list of students.
func NewStudentResponses(students []*models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, NewStudentResponse(s))
	}
	return out
}

// NewStudentSummaries maps students to their short form.
func NewStudentSummaries(students []*models.Student) []StudentSummary {
	out := make([]StudentSummary, 0, len(students))
	for _, s := range students {
		out = append(out, StudentSummary{ID: s.ID, FirstName: s.FirstName, LastName: s.LastName, Email: s.Email})
	}
	return out
}

// NewStudentDetailResponse maps a student detail.
func NewStudentDetailResponse(d *models.StudentDetail) StudentDetailResponse {
	resp := StudentDetailResponse{
		ID:          d.ID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		DateOfBirth: d.DateOfBirth.Format(models.DateLayout),
		Subjects:    NewSubjectDetailResponses(d.Subjects),
	}
	if d.Course != nil {
		c := NewCourseResponse(d.Course)
		resp.Course = &c
	}
	return resp
}
