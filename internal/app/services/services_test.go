package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolms/internal/app/integrity"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/app/repositories/memory"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
	"github.com/yigit/schoolms/internal/pkg/auth"
	"github.com/yigit/schoolms/internal/pkg/relation"
	"golang.org/x/crypto/bcrypt"
)

func str(s string) *string { return &s }
func id(v int64) *int64    { return &v }

type school struct {
	svc      *Services
	store    *memory.Store
	courseA  int64
	courseB  int64
	jane     int64
	algo     int64
	tom      int64
	otherCS  int64
	physicsB int64
}

// newSchool builds Computer Science (A) and Physics (B), lecturer Jane Smith,
// subject Algorithms under A with Tom Brown enrolled.
func newSchool(t *testing.T) *school {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "schoolms"})
	s := &school{svc: NewServices(store, jwtService, zerolog.New(io.Discard)), store: store}

	a, err := s.svc.Courses.Create(ctx, &dto.CourseRequest{Name: str("Computer Science")})
	require.NoError(t, err)
	b, err := s.svc.Courses.Create(ctx, &dto.CourseRequest{Name: str("Physics")})
	require.NoError(t, err)
	s.courseA, s.courseB = a.ID, b.ID

	jane, err := s.svc.Lecturers.Create(ctx, &dto.LecturerRequest{FirstName: str("Jane"), LastName: str("Smith"), Email: str("Jane.Smith@example.com")})
	require.NoError(t, err)
	s.jane = jane.ID

	tom, err := s.svc.Students.Create(ctx, &dto.StudentRequest{
		FirstName: str("Tom"), LastName: str("Brown"), Email: str("tom@example.com"),
		DateOfBirth: str("2001-05-04"), Course: id(s.courseA),
	})
	require.NoError(t, err)
	s.tom = tom.ID

	other, err := s.svc.Students.Create(ctx, &dto.StudentRequest{
		FirstName: str("Ada"), LastName: str("King"), Email: str("ada@example.com"),
		DateOfBirth: str("2000-12-10"), Course: id(s.courseA),
	})
	require.NoError(t, err)
	s.otherCS = other.ID

	algo, err := s.svc.Subjects.Create(ctx, &dto.SubjectRequest{
		Name: str("Algorithms"), Course: id(s.courseA), Lecturer: id(s.jane),
		Students: relation.ReplaceWith(s.tom),
	})
	require.NoError(t, err)
	s.algo = algo.ID

	mech, err := s.svc.Subjects.Create(ctx, &dto.SubjectRequest{
		Name: str("Mechanics"), Course: id(s.courseB), Lecturer: id(s.jane),
	})
	require.NoError(t, err)
	s.physicsB = mech.ID
	return s
}

func violation(t *testing.T, err error, reason integrity.Reason) *integrity.Violation {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	var v *integrity.Violation
	require.True(t, errors.As(err, &v), "expected integrity violation, got %v", err)
	assert.Equal(t, reason, v.Reason)
	return v
}

func TestCourseDetailIncludesEnrolledStudentAndSubject(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	detail, err := s.svc.Courses.Get(ctx, s.courseA)
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", detail.Name)
	assert.Contains(t, models.StudentIDs(detail.Students), s.tom)
	require.Len(t, detail.Subjects, 1)
	assert.Equal(t, "Algorithms", detail.Subjects[0].Name)
	assert.Equal(t, "Jane", detail.Subjects[0].Lecturer.FirstName)

	subject, err := s.svc.Subjects.Get(ctx, s.algo)
	require.NoError(t, err)
	assert.Equal(t, []int64{s.tom}, models.StudentIDs(subject.Students))
	assert.Equal(t, s.courseA, subject.Course.ID)
}

func TestSubjectCreateRequiresCourseAndLecturer(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	_, err := s.svc.Subjects.Create(ctx, &dto.SubjectRequest{Name: str("Orphan"), Lecturer: id(s.jane)})
	v := violation(t, err, integrity.ReasonMissingCourse)
	assert.Equal(t, "Subject must belong to a course.", v.Message)

	_, err = s.svc.Subjects.Create(ctx, &dto.SubjectRequest{Name: str("Orphan"), Course: id(s.courseA)})
	violation(t, err, integrity.ReasonMissingLecturer)

	list, err := s.svc.Subjects.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSubjectCreateRejectsCrossCourseStudent(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	_, err := s.svc.Subjects.Create(ctx, &dto.SubjectRequest{
		Name: str("Physics B"), Course: id(s.courseB), Lecturer: id(s.jane),
		Students: relation.ReplaceWith(s.tom),
	})
	v := violation(t, err, integrity.ReasonCrossCourseStudentAssignment)
	assert.Equal(t, []int64{s.tom}, v.OffendingIDs)

	subjects, err := s.store.Subjects().ListByStudent(ctx, s.tom)
	require.NoError(t, err)
	assert.Equal(t, []int64{s.algo}, models.SubjectIDs(subjects))
	list, err := s.svc.Subjects.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSubjectUnknownRelatedIDs(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	tests := []struct {
		name string
		req  *dto.SubjectRequest
	}{
		{"course", &dto.SubjectRequest{Name: str("X"), Course: id(99), Lecturer: id(s.jane)}},
		{"lecturer", &dto.SubjectRequest{Name: str("X"), Course: id(s.courseA), Lecturer: id(99)}},
		{"students", &dto.SubjectRequest{Name: str("X"), Course: id(s.courseA), Lecturer: id(s.jane), Students: relation.ReplaceWith[int64](s.tom, 99)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.svc.Subjects.Create(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
			assert.Contains(t, err.Error(), `Invalid pk "99"`)
		})
	}
}

func TestSubjectCourseChangeWithEnrolledStudents(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	_, err := s.svc.Subjects.Update(ctx, s.algo, &dto.SubjectRequest{Course: id(s.courseB)}, dto.ModePatch)
	v := violation(t, err, integrity.ReasonCourseChangeBreaksEnrollment)
	assert.Equal(t, []int64{s.tom}, v.OffendingIDs)

	got, err := s.store.Subjects().GetByID(ctx, s.algo)
	require.NoError(t, err)
	assert.Equal(t, s.courseA, got.CourseID)

	updated, err := s.svc.Subjects.Update(ctx, s.algo, &dto.SubjectRequest{
		Course: id(s.courseB), Students: relation.Cleared[int64](),
	}, dto.ModePatch)
	require.NoError(t, err)
	assert.Equal(t, s.courseB, updated.CourseID)
	assert.Empty(t, updated.StudentIDs)
}

func TestSubjectPatchLeavesStudentsUntouched(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	updated, err := s.svc.Subjects.Update(ctx, s.algo, &dto.SubjectRequest{Description: str("Sorting and graphs")}, dto.ModePatch)
	require.NoError(t, err)
	assert.Equal(t, "Sorting and graphs", updated.Description)
	assert.Equal(t, "Algorithms", updated.Name)
	assert.Equal(t, []int64{s.tom}, updated.StudentIDs)

	updated, err = s.svc.Subjects.Update(ctx, s.algo, &dto.SubjectRequest{Students: relation.ReplaceWith(s.otherCS)}, dto.ModePatch)
	require.NoError(t, err)
	assert.Equal(t, []int64{s.otherCS}, updated.StudentIDs)
}

func TestSubjectPutRequiresFullFieldSet(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	_, err := s.svc.Subjects.Update(ctx, s.algo, &dto.SubjectRequest{Name: str("Algorithms II")}, dto.ModeReplace)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	var v *integrity.Violation
	assert.False(t, errors.As(err, &v))
}

func TestStudentCreateRejectsSubjectOutsideCourse(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	_, err := s.svc.Students.Create(ctx, &dto.StudentRequest{
		FirstName: str("Eve"), LastName: str("Moss"), Email: str("eve@example.com"),
		DateOfBirth: str("2002-01-01"), Course: id(s.courseA), Subjects: relation.ReplaceWith(s.physicsB),
	})
	v := violation(t, err, integrity.ReasonSubjectOutsideCourse)
	assert.Equal(t, []int64{s.physicsB}, v.OffendingIDs)

	list, err := s.svc.Students.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestStudentCreateWithoutCourse(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	_, err := s.svc.Students.Create(ctx, &dto.StudentRequest{
		FirstName: str("Eve"), LastName: str("Moss"), Email: str("eve@example.com"), DateOfBirth: str("2002-01-01"),
	})
	v := violation(t, err, integrity.ReasonMissingCourse)
	assert.Equal(t, "Student must belong to a course.", v.Message)
}

func TestStudentCourseChangeBreakingEnrollment(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	_, err := s.svc.Students.Update(ctx, s.tom, &dto.StudentRequest{Course: id(s.courseB)}, dto.ModePatch)
	v := violation(t, err, integrity.ReasonCourseChangeBreaksEnrollment)
	assert.Equal(t, integrity.EntityStudent, v.Entity)
	assert.Equal(t, []int64{s.algo}, v.OffendingIDs)

	tom, err := s.store.Students().GetByID(ctx, s.tom)
	require.NoError(t, err)
	assert.Equal(t, s.courseA, tom.CourseID)
	assert.Equal(t, []int64{s.algo}, tom.SubjectIDs)

	moved, err := s.svc.Students.Update(ctx, s.tom, &dto.StudentRequest{
		Course: id(s.courseB), Subjects: relation.ReplaceWith(s.physicsB),
	}, dto.ModePatch)
	require.NoError(t, err)
	assert.Equal(t, s.courseB, moved.CourseID)
	assert.Equal(t, []int64{s.physicsB}, moved.SubjectIDs)
}

func TestStudentDetail(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	detail, err := s.svc.Students.Get(ctx, s.tom)
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", detail.Course.Name)
	require.Len(t, detail.Subjects, 1)
	assert.Equal(t, "Algorithms", detail.Subjects[0].Name)
	assert.Equal(t, "2001-05-04", detail.DateOfBirth.Format(models.DateLayout))
}

func TestEnrollmentStaysWithinOneCourse(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	// a mix of accepted and rejected mutations
	_, _ = s.svc.Subjects.Update(ctx, s.physicsB, &dto.SubjectRequest{Students: relation.ReplaceWith(s.tom)}, dto.ModePatch)
	_, _ = s.svc.Students.Update(ctx, s.otherCS, &dto.StudentRequest{Subjects: relation.ReplaceWith(s.algo, s.physicsB)}, dto.ModePatch)
	_, _ = s.svc.Students.Update(ctx, s.otherCS, &dto.StudentRequest{Subjects: relation.ReplaceWith(s.algo)}, dto.ModePatch)
	_, _ = s.svc.Subjects.Update(ctx, s.algo, &dto.SubjectRequest{Course: id(s.courseB)}, dto.ModePatch)
	_, _ = s.svc.Students.Update(ctx, s.tom, &dto.StudentRequest{Course: id(s.courseB)}, dto.ModePatch)

	subjects, err := s.svc.Subjects.List(ctx)
	require.NoError(t, err)
	for _, sub := range subjects {
		students, err := s.store.Students().GetByIDs(ctx, sub.StudentIDs)
		require.NoError(t, err)
		for _, st := range students {
			assert.Equal(t, sub.CourseID, st.CourseID, "subject %d student %d", sub.ID, st.ID)
		}
	}

	algo, err := s.store.Subjects().GetByID(ctx, s.algo)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{s.tom, s.otherCS}, algo.StudentIDs)
}

func TestCourseDelete(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	err := s.svc.Courses.Delete(ctx, s.courseA)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrReferencedRowExists))
	_, err = s.store.Subjects().GetByID(ctx, s.algo)
	require.NoError(t, err)

	require.NoError(t, s.svc.Courses.Delete(ctx, s.courseB))
	_, err = s.store.Subjects().GetByID(ctx, s.physicsB)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	err = s.svc.Courses.Delete(ctx, s.courseB)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}

func TestLecturerDeleteAndDetail(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	detail, err := s.svc.Lecturers.Get(ctx, s.jane)
	require.NoError(t, err)
	assert.Equal(t, "Jane.Smith@example.com", detail.Email)
	require.Len(t, detail.Subjects, 2)
	require.Len(t, detail.Courses, 2)
	assert.Equal(t, s.courseA, detail.Courses[0].ID)
	assert.Equal(t, s.courseB, detail.Courses[1].ID)

	err = s.svc.Lecturers.Delete(ctx, s.jane)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrReferencedRowExists))

	idle, err := s.svc.Lecturers.Create(ctx, &dto.LecturerRequest{FirstName: str("Sam"), LastName: str("Hill"), Email: str("sam@example.com")})
	require.NoError(t, err)
	require.NoError(t, s.svc.Lecturers.Delete(ctx, idle.ID))
}

func TestDuplicateNames(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	_, err := s.svc.Courses.Create(ctx, &dto.CourseRequest{Name: str("Computer Science")})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateKey))

	_, err = s.svc.Subjects.Create(ctx, &dto.SubjectRequest{Name: str("Algorithms"), Course: id(s.courseA), Lecturer: id(s.jane)})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateKey))

	_, err = s.svc.Subjects.Create(ctx, &dto.SubjectRequest{Name: str("Algorithms"), Course: id(s.courseB), Lecturer: id(s.jane)})
	assert.NoError(t, err)
}

func TestPersonEmailsKeepTheirCase(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	upper, err := s.svc.Students.Create(ctx, &dto.StudentRequest{
		FirstName: str("Tom"), LastName: str("Brown"), Email: str("Tom@Example.com"),
		DateOfBirth: str("2001-05-04"), Course: id(s.courseA),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tom@Example.com", upper.Email)

	_, err = s.svc.Students.Create(ctx, &dto.StudentRequest{
		FirstName: str("Tom"), LastName: str("Brown"), Email: str("tom@example.com"),
		DateOfBirth: str("2001-05-04"), Course: id(s.courseA),
	})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateKey))

	_, err = s.svc.Lecturers.Create(ctx, &dto.LecturerRequest{FirstName: str("Jane"), LastName: str("Smith"), Email: str("jane.smith@example.com")})
	assert.NoError(t, err)
}

func TestSubjectAndStudentDeleteKeepOtherSide(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	require.NoError(t, s.svc.Subjects.Delete(ctx, s.algo))
	tom, err := s.store.Students().GetByID(ctx, s.tom)
	require.NoError(t, err)
	assert.Empty(t, tom.SubjectIDs)

	require.NoError(t, s.svc.Students.Delete(ctx, s.tom))
	_, err = s.store.Subjects().GetByID(ctx, s.physicsB)
	assert.NoError(t, err)
}

func TestAuthLoginAndVerify(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	hash, err := auth.HashPasswordWithCost("secret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	_, err = s.store.Users().Create(ctx, &models.User{Email: "admin@example.com", Password: hash, IsActive: true, IsStaff: true})
	require.NoError(t, err)
	_, err = s.store.Users().Create(ctx, &models.User{Email: "off@example.com", Password: hash})
	require.NoError(t, err)

	resp, err := s.svc.Auth.Login(ctx, &dto.LoginRequest{Email: "Admin@Example.com", Password: "secret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := s.svc.Auth.VerifyToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, claims.IsStaff)

	for _, req := range []dto.LoginRequest{
		{Email: "admin@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "secret-pass"},
		{Email: "off@example.com", Password: "secret-pass"},
	} {
		_, err := s.svc.Auth.Login(ctx, &req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials, req.Email)
	}

	_, err = s.svc.Auth.VerifyToken(ctx, "garbage")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestCreateAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newSchool(t)

	created, err := s.svc.Auth.CreateAdmin(ctx, "Root@Example.com", "pw")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.svc.Auth.CreateAdmin(ctx, "root@example.com", "other")
	require.NoError(t, err)
	assert.False(t, created)

	user, err := s.store.Users().GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsStaff)
	assert.True(t, auth.CheckPassword(user.Password, "pw"))

	_, err = s.svc.Auth.CreateAdmin(ctx, "", "pw")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
