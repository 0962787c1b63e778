package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

func TestTranslateUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{
		Code:           UniqueViolation,
		ConstraintName: "courses_name_key",
		Message:        `duplicate key value violates unique constraint "courses_name_key"`,
	})

	got := Translate(err)
	require.True(t, errors.Is(got, apperrors.ErrDuplicateKey))
	assert.Equal(t, "course with this name already exists.", got.Error())
}

func TestTranslateForeignKeyOnDelete(t *testing.T) {
	err := &pgconn.PgError{
		Code:           ForeignKeyViolation,
		ConstraintName: "students_course_id_fkey",
		Message:        `update or delete on table "courses" violates foreign key constraint "students_course_id_fkey" on table "students"`,
	}

	got := Translate(err)
	assert.True(t, errors.Is(got, apperrors.ErrReferencedRowExists))
	assert.Contains(t, got.Error(), "students exist")
}

func TestTranslateForeignKeyOnInsert(t *testing.T) {
	err := &pgconn.PgError{
		Code:           ForeignKeyViolation,
		ConstraintName: "subjects_lecturer_id_fkey",
		Message:        `insert or update on table "subjects" violates foreign key constraint "subjects_lecturer_id_fkey"`,
	}

	got := Translate(err)
	assert.True(t, errors.Is(got, apperrors.ErrValidationFailed))
	assert.False(t, errors.Is(got, apperrors.ErrReferencedRowExists))

	var custom *apperrors.CustomError
	require.True(t, errors.As(got, &custom))
	assert.Equal(t, ResourceInvalidCode, custom.Code)
}

func TestTranslatePassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Same(t, plain, Translate(plain))
}
