package integrity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/relation"
)

const (
	courseA int64 = 1
	courseB int64 = 2
)

func id(v int64) *int64 { return &v }

func student(studentID, courseID int64) *models.Student {
	return &models.Student{ID: studentID, CourseID: courseID}
}

func subject(subjectID, courseID int64) *models.Subject {
	return &models.Subject{ID: subjectID, CourseID: courseID, LecturerID: 9}
}

func requireViolation(t *testing.T, err error, reason Reason, entity Entity) *Violation {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	var v *Violation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, reason, v.Reason)
	assert.Equal(t, entity, v.Entity)
	return v
}

func TestValidateSubjectMutation(t *testing.T) {
	existing := subject(10, courseA)

	tests := []struct {
		name     string
		existing *models.Subject
		proposed SubjectProposal
		current  []*models.Student
		reason   Reason
		bad      []int64
	}{
		{
			name:     "create without course",
			proposed: SubjectProposal{LecturerID: id(9)},
			reason:   ReasonMissingCourse,
		},
		{
			name:     "create without lecturer",
			proposed: SubjectProposal{CourseID: id(courseA)},
			reason:   ReasonMissingLecturer,
		},
		{
			name: "create with cross-course students",
			proposed: SubjectProposal{
				CourseID:   id(courseB),
				LecturerID: id(9),
				Students:   relation.ReplaceWith(student(5, courseA), student(6, courseB)),
			},
			reason: ReasonCrossCourseStudentAssignment,
			bad:    []int64{5},
		},
		{
			name: "create with matching students",
			proposed: SubjectProposal{
				CourseID:   id(courseA),
				LecturerID: id(9),
				Students:   relation.ReplaceWith(student(5, courseA)),
			},
		},
		{
			name:     "update keeps course and lecturer from existing",
			existing: existing,
			proposed: SubjectProposal{},
			current:  []*models.Student{student(5, courseA)},
		},
		{
			name:     "course change orphans current students",
			existing: existing,
			proposed: SubjectProposal{CourseID: id(courseB)},
			current:  []*models.Student{student(5, courseA), student(7, courseA)},
			reason:   ReasonCourseChangeBreaksEnrollment,
			bad:      []int64{5, 7},
		},
		{
			name:     "course change with no current students",
			existing: existing,
			proposed: SubjectProposal{CourseID: id(courseB)},
		},
		{
			name:     "course change with replacement list",
			existing: existing,
			proposed: SubjectProposal{
				CourseID: id(courseB),
				Students: relation.ReplaceWith(student(8, courseB)),
			},
			current: []*models.Student{student(5, courseA)},
		},
		{
			name:     "course change while clearing students",
			existing: existing,
			proposed: SubjectProposal{CourseID: id(courseB), Students: relation.Cleared[*models.Student]()},
			current:  []*models.Student{student(5, courseA)},
		},
		{
			name:     "replacement list checked against existing course",
			existing: existing,
			proposed: SubjectProposal{Students: relation.ReplaceWith(student(8, courseB))},
			reason:   ReasonCrossCourseStudentAssignment,
			bad:      []int64{8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubjectMutation(tt.existing, tt.proposed, tt.current)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			v := requireViolation(t, err, tt.reason, EntitySubject)
			assert.Equal(t, tt.bad, v.OffendingIDs)
		})
	}
}

func TestValidateStudentMutation(t *testing.T) {
	existing := student(20, courseA)

	tests := []struct {
		name     string
		existing *models.Student
		proposed StudentProposal
		current  []*models.Subject
		reason   Reason
		bad      []int64
	}{
		{
			name:   "create without course",
			reason: ReasonMissingCourse,
		},
		{
			name: "create with subject from another course",
			proposed: StudentProposal{
				CourseID: id(courseA),
				Subjects: relation.ReplaceWith(subject(3, courseB)),
			},
			reason: ReasonSubjectOutsideCourse,
			bad:    []int64{3},
		},
		{
			name: "create with own subjects",
			proposed: StudentProposal{
				CourseID: id(courseA),
				Subjects: relation.ReplaceWith(subject(1, courseA), subject(2, courseA)),
			},
		},
		{
			name:     "course change keeps old subjects",
			existing: existing,
			proposed: StudentProposal{CourseID: id(courseB)},
			current:  []*models.Subject{subject(1, courseA)},
			reason:   ReasonCourseChangeBreaksEnrollment,
			bad:      []int64{1},
		},
		{
			name:     "course change clears subjects",
			existing: existing,
			proposed: StudentProposal{CourseID: id(courseB), Subjects: relation.Cleared[*models.Subject]()},
			current:  []*models.Subject{subject(1, courseA)},
		},
		{
			name:     "same course resubmitted",
			existing: existing,
			proposed: StudentProposal{CourseID: id(courseA)},
			current:  []*models.Subject{subject(1, courseA)},
		},
		{
			name:     "partial update without relations",
			existing: existing,
			current:  []*models.Subject{subject(1, courseA)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStudentMutation(tt.existing, tt.proposed, tt.current)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			v := requireViolation(t, err, tt.reason, EntityStudent)
			assert.Equal(t, tt.bad, v.OffendingIDs)
		})
	}
}

func TestCourseChangeRejectionsStayDistinct(t *testing.T) {
	subjectErr := ValidateSubjectMutation(subject(1, courseA), SubjectProposal{CourseID: id(courseB)},
		[]*models.Student{student(5, courseA)})
	studentErr := ValidateStudentMutation(student(5, courseA), StudentProposal{CourseID: id(courseB)},
		[]*models.Subject{subject(1, courseA)})

	sv := requireViolation(t, subjectErr, ReasonCourseChangeBreaksEnrollment, EntitySubject)
	tv := requireViolation(t, studentErr, ReasonCourseChangeBreaksEnrollment, EntityStudent)
	assert.NotEqual(t, sv.Message, tv.Message)
}

func TestDescribe(t *testing.T) {
	v := &Violation{Reason: ReasonSubjectOutsideCourse, Entity: EntityStudent, OffendingIDs: []int64{4}}
	assert.Equal(t, "student SUBJECT_OUTSIDE_COURSE [4]", Describe(v))
}
