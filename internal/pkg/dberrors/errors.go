package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

// ResourceInvalidCode is the API error code for a reference to a missing row.
const ResourceInvalidCode = "RES_003"

// PostgreSQL error codes
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

// constraintMessages maps schema constraint names to client-facing messages.
var constraintMessages = map[string]string{
	CourseNameKey:         "course with this name already exists.",
	LecturerEmailKey:      "lecturer with this email already exists.",
	StudentEmailKey:       "student with this email already exists.",
	UserEmailKey:          "user with this email already exists.",
	SubjectNameCourseKey:  "The fields name, course must make a unique set.",
	SubjectCourseFKey:     "Cannot delete course while subjects exist.",
	SubjectLecturerFKey:   "Cannot delete lecturer while subjects exist. Reassign subjects first.",
	StudentCourseFKey:     "Cannot delete course while students exist. Remove/reassign students first.",
	EnrollmentSubjectFKey: "subject is still referenced by enrollments.",
	EnrollmentStudentFKey: "student is still referenced by enrollments.",
}

// Constraint names declared in the schema.
const (
	CourseNameKey         = "courses_name_key"
	LecturerEmailKey      = "lecturers_email_key"
	StudentEmailKey       = "students_email_key"
	UserEmailKey          = "users_email_key"
	SubjectNameCourseKey  = "subjects_name_course_id_key"
	SubjectCourseFKey     = "subjects_course_id_fkey"
	SubjectLecturerFKey   = "subjects_lecturer_id_fkey"
	StudentCourseFKey     = "students_course_id_fkey"
	EnrollmentSubjectFKey = "subject_students_subject_fkey"
	EnrollmentStudentFKey = "subject_students_student_fkey"
)

// Message returns the client-facing message for a constraint name.
func Message(constraint string) string {
	if msg, ok := constraintMessages[constraint]; ok {
		return msg
	}
	return "constraint violated: " + constraint
}

// Translate maps constraint violations onto the application error kinds.
// Errors that are not constraint violations are returned unchanged.
func Translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	msg, known := constraintMessages[pgErr.ConstraintName]
	if !known {
		msg = pgErr.Message
	}

	switch pgErr.Code {
	case UniqueViolation:
		return apperrors.NewDuplicateKeyError(msg)
	case ForeignKeyViolation:
		// The same code is raised for a dangling reference on insert/update and
		// for a delete blocked by referencing rows.
		if strings.HasPrefix(pgErr.Message, "update or delete") {
			return apperrors.NewReferencedRowError(msg)
		}
		return apperrors.NewValidationError("related object does not exist: " + pgErr.ConstraintName).
			WithCode(ResourceInvalidCode)
	}
	return err
}
