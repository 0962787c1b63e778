package dto

import (
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/relation"
)

// SubjectRequest is the body of subject create/update requests.
// Students follows the relation convention: absent keeps the enrollment,
// null or [] clears it, a list replaces it.
type SubjectRequest struct {
	Name        *string               `json:"name" binding:"omitempty,max=255"`
	Description *string               `json:"description"`
	Course      *int64                `json:"course"`
	Lecturer    *int64                `json:"lecturer"`
	Students    relation.Field[int64] `json:"students"`
}

// Validate checks field shape. A missing course or lecturer on create is left
// to the integrity policy so it is reported with the domain message.
func (r *SubjectRequest) Validate(mode WriteMode) error {
	errs := NewValidationErrors()
	requireText(errs, "name", r.Name, mode != ModePatch)
	requireID(errs, "course", r.Course, mode == ModeReplace)
	requireID(errs, "lecturer", r.Lecturer, mode == ModeReplace)
	for _, id := range r.Students.Items() {
		if id <= 0 {
			errs.AddError("students", "students must contain positive ids")
			break
		}
	}
	return errs.Err()
}

// Apply copies the supplied scalar fields onto s. Relations are applied by the service.
func (r *SubjectRequest) Apply(s *models.Subject) {
	if r.Name != nil {
		s.Name = trimmed(r.Name)
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.Course != nil {
		s.CourseID = *r.Course
	}
	if r.Lecturer != nil {
		s.LecturerID = *r.Lecturer
	}
}

// SubjectResponse is the flat subject representation with related ids.
type SubjectResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Course      int64   `json:"course"`
	Lecturer    int64   `json:"lecturer"`
	Students    []int64 `json:"students"`
}

// SubjectDetailResponse is a subject with its course, lecturer and students expanded.
type SubjectDetailResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Course      *CourseResponse   `json:"course"`
	Lecturer    *LecturerResponse `json:"lecturer"`
	Students    []StudentSummary  `json:"students"`
}

// NewSubjectResponse maps a subject model to its response.
func NewSubjectResponse(s *models.Subject) SubjectResponse {
	return SubjectResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Course:      s.CourseID,
		Lecturer:    s.LecturerID,
		Students:    ids(s.StudentIDs),
	}
}

// NewSubjectResponses maps a list of subjects.
func NewSubjectResponses(subjects []*models.Subject) []SubjectResponse {
	out := make([]SubjectResponse, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, NewSubjectResponse(s))
	}
	return out
}

// NewSubjectDetailResponse maps a subject detail.
func NewSubjectDetailResponse(d *models.SubjectDetail) SubjectDetailResponse {
	resp := SubjectDetailResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Students:    NewStudentSummaries(d.Students),
	}
	if d.Course != nil {
		c := NewCourseResponse(d.Course)
		resp.Course = &c
	}
	if d.Lecturer != nil {
		l := NewLecturerResponse(d.Lecturer)
		resp.Lecturer = &l
	}
	return resp
}

// NewSubjectDetailResponses maps a list of subject details.
func NewSubjectDetailResponses(details []*models.SubjectDetail) []SubjectDetailResponse {
	out := make([]SubjectDetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, NewSubjectDetailResponse(d))
	}
	return out
}

func ids(in []int64) []int64 {
	if in == nil {
		return []int64{}
	}
	return in
}
