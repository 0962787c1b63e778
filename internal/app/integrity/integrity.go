// Package integrity decides whether a proposed Subject or Student mutation
// keeps enrollments inside a single course.
//
// The checks are pure: callers load the current state inside the same
// transaction that performs the write and pass it in.
package integrity

import (
	"fmt"

	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/relation"
)

// Reason classifies a rejected mutation.
type Reason string

const (
	ReasonMissingCourse                Reason = "MISSING_COURSE"
	ReasonMissingLecturer              Reason = "MISSING_LECTURER"
	ReasonCrossCourseStudentAssignment Reason = "CROSS_COURSE_STUDENT_ASSIGNMENT"
	ReasonSubjectOutsideCourse         Reason = "SUBJECT_OUTSIDE_COURSE"
	ReasonCourseChangeBreaksEnrollment Reason = "COURSE_CHANGE_BREAKS_ENROLLMENT"
)

// Entity names the side of the enrollment a Violation was raised for.
type Entity string

const (
	EntitySubject Entity = "subject"
	EntityStudent Entity = "student"
)

// Violation is a rejected mutation. It unwraps to apperrors.ErrValidationFailed.
type Violation struct {
	Reason       Reason
	Entity       Entity
	Message      string
	OffendingIDs []int64
}

func (v *Violation) Error() string { return v.Message }

func (v *Violation) Unwrap() error { return apperrors.ErrValidationFailed }

// SubjectProposal holds the relationship fields of a Subject create/update.
// A nil id means the field was not supplied.
type SubjectProposal struct {
	CourseID   *int64
	LecturerID *int64
	Students   relation.Field[*models.Student]
}

// StudentProposal holds the relationship fields of a Student create/update.
type StudentProposal struct {
	CourseID *int64
	Subjects relation.Field[*models.Subject]
}

// ValidateSubjectMutation checks a Subject create (existing == nil) or update.
// current is the set of students enrolled in existing before the write.
func ValidateSubjectMutation(existing *models.Subject, proposed SubjectProposal, current []*models.Student) error {
	courseID, ok := effectiveID(proposed.CourseID, existing, func(s *models.Subject) int64 { return s.CourseID })
	if !ok {
		return &Violation{
			Reason:  ReasonMissingCourse,
			Entity:  EntitySubject,
			Message: "Subject must belong to a course.",
		}
	}
	if _, ok := effectiveID(proposed.LecturerID, existing, func(s *models.Subject) int64 { return s.LecturerID }); !ok {
		return &Violation{
			Reason:  ReasonMissingLecturer,
			Entity:  EntitySubject,
			Message: "Subject must have a lecturer.",
		}
	}

	if proposed.Students.IsSet() {
		if bad := studentsOutside(proposed.Students.Items(), courseID); len(bad) > 0 {
			return &Violation{
				Reason:       ReasonCrossCourseStudentAssignment,
				Entity:       EntitySubject,
				Message:      "Cannot assign students from a different course to this subject.",
				OffendingIDs: bad,
			}
		}
		return nil
	}

	if existing != nil && proposed.CourseID != nil {
		if bad := studentsOutside(current, courseID); len(bad) > 0 {
			return &Violation{
				Reason:       ReasonCourseChangeBreaksEnrollment,
				Entity:       EntitySubject,
				Message:      "Cannot change subject course while enrolled students are in a different course.",
				OffendingIDs: bad,
			}
		}
	}
	return nil
}

// ValidateStudentMutation checks a Student create (existing == nil) or update.
// current is the set of subjects existing is enrolled in before the write.
func ValidateStudentMutation(existing *models.Student, proposed StudentProposal, current []*models.Subject) error {
	courseID, ok := effectiveID(proposed.CourseID, existing, func(s *models.Student) int64 { return s.CourseID })
	if !ok {
		return &Violation{
			Reason:  ReasonMissingCourse,
			Entity:  EntityStudent,
			Message: "Student must belong to a course.",
		}
	}

	if proposed.Subjects.IsSet() {
		if bad := subjectsOutside(proposed.Subjects.Items(), courseID); len(bad) > 0 {
			return &Violation{
				Reason:       ReasonSubjectOutsideCourse,
				Entity:       EntityStudent,
				Message:      "Student cannot enroll in subjects outside their course.",
				OffendingIDs: bad,
			}
		}
		return nil
	}

	if existing != nil && proposed.CourseID != nil {
		if bad := subjectsOutside(current, courseID); len(bad) > 0 {
			return &Violation{
				Reason:       ReasonCourseChangeBreaksEnrollment,
				Entity:       EntityStudent,
				Message:      "Cannot change course while enrolled subjects are outside the new course. Clear/replace subjects.",
				OffendingIDs: bad,
			}
		}
	}
	return nil
}

// Describe renders a violation with its offending ids, for logs.
func Describe(v *Violation) string {
	if len(v.OffendingIDs) == 0 {
		return fmt.Sprintf("%s %s", v.Entity, v.Reason)
	}
	return fmt.Sprintf("%s %s %v", v.Entity, v.Reason, v.OffendingIDs)
}

func effectiveID[T any](proposed *int64, existing *T, get func(*T) int64) (int64, bool) {
	if proposed != nil && *proposed > 0 {
		return *proposed, true
	}
	if existing != nil {
		if id := get(existing); id > 0 {
			return id, true
		}
	}
	return 0, false
}

func studentsOutside(students []*models.Student, courseID int64) []int64 {
	var bad []int64
	for _, st := range students {
		if st.CourseID != courseID {
			bad = append(bad, st.ID)
		}
	}
	return bad
}

func subjectsOutside(subjects []*models.Subject, courseID int64) []int64 {
	var bad []int64
	for _, sub := range subjects {
		if sub.CourseID != courseID {
			bad = append(bad, sub.ID)
		}
	}
	return bad
}
