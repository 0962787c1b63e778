package dto

import "github.com/yigit/schoolms/internal/app/models"

// LecturerRequest is the body of lecturer create/update requests.
type LecturerRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// Validate checks required fields for the given mode.
func (r *LecturerRequest) Validate(mode WriteMode) error {
	required := mode != ModePatch
	errs := NewValidationErrors()
	requireText(errs, "first_name", r.FirstName, required)
	requireText(errs, "last_name", r.LastName, required)
	requireText(errs, "email", r.Email, required)
	return errs.Err()
}

// Apply copies the supplied fields onto l.
func (r *LecturerRequest) Apply(l *models.Lecturer) {
	if r.FirstName != nil {
		l.FirstName = trimmed(r.FirstName)
	}
	if r.LastName != nil {
		l.LastName = trimmed(r.LastName)
	}
	if r.Email != nil {
		l.Email = trimmed(r.Email)
	}
}

// LecturerResponse is the flat lecturer representation.
type LecturerResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// LecturerDetailResponse is a lecturer with the subjects they teach and the
// distinct courses of those subjects.
type LecturerDetailResponse struct {
	LecturerResponse
	Subjects []SubjectDetailResponse `json:"subjects"`
	Courses  []CourseRef             `json:"courses"`
}

// NewLecturerResponse maps a lecturer model to its response.
func NewLecturerResponse(l *models.Lecturer) LecturerResponse {
	return LecturerResponse{ID: l.ID, FirstName: l.FirstName, LastName: l.LastName, Email: l.Email}
}

// NewLecturerResponses maps a list of lecturers.
func NewLecturerResponses(lecturers []*models.Lecturer) []LecturerResponse {
	out := make([]LecturerResponse, 0, len(lecturers))
	for _, l := range lecturers {
		out = append(out, NewLecturerResponse(l))
	}
	return out
}

// NewLecturerDetailResponse maps a lecturer detail.
func NewLecturerDetailResponse(d *models.LecturerDetail) LecturerDetailResponse {
	courses := make([]CourseRef, 0, len(d.Courses))
	for _, c := range d.Courses {
		courses = append(courses, CourseRef{ID: c.ID, Name: c.Name})
	}
	return LecturerDetailResponse{
		LecturerResponse: NewLecturerResponse(&d.Lecturer),
		Subjects:         NewSubjectDetailResponses(d.Subjects),
		Courses:          courses,
	}
}
