package memory

import (
	"context"
	"slices"

	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
)

type studentRepo struct{ s *Store }

func (r studentRepo) Create(ctx context.Context, s *models.Student) (int64, error) {
	var id int64
	err := r.s.write(ctx, func(st *state) error {
		if err := checkStudentRefs(st, s, 0); err != nil {
			return err
		}
		st.seq.student++
		id = st.seq.student
		stored := *s
		stored.ID = id
		stored.SubjectIDs = nil
		st.students[id] = stored
		return nil
	})
	return id, err
}

func (r studentRepo) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	var out *models.Student
	err := r.s.read(ctx, func(st *state) error {
		if _, ok := st.students[id]; !ok {
			return notFound("student")
		}
		out = st.student(id)
		return nil
	})
	return out, err
}

func (r studentRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Student, error) {
	return r.filter(ctx, func(_ *state, s models.Student) bool { return slices.Contains(ids, s.ID) })
}

func (r studentRepo) List(ctx context.Context) ([]*models.Student, error) {
	return r.filter(ctx, func(*state, models.Student) bool { return true })
}

func (r studentRepo) ListByCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	return r.filter(ctx, func(_ *state, s models.Student) bool { return s.CourseID == courseID })
}

func (r studentRepo) ListBySubject(ctx context.Context, subjectID int64) ([]*models.Student, error) {
	return r.filter(ctx, func(st *state, s models.Student) bool {
		_, ok := st.enrollments[enrollment{subjectID: subjectID, studentID: s.ID}]
		return ok
	})
}

func (r studentRepo) CountByCourse(ctx context.Context, courseID int64) (int, error) {
	students, err := r.ListByCourse(ctx, courseID)
	return len(students), err
}

func (r studentRepo) Update(ctx context.Context, s *models.Student) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.students[s.ID]; !ok {
			return notFound("student")
		}
		if err := checkStudentRefs(st, s, s.ID); err != nil {
			return err
		}
		stored := *s
		stored.SubjectIDs = nil
		st.students[s.ID] = stored
		return nil
	})
}

func (r studentRepo) SetSubjects(ctx context.Context, studentID int64, subjectIDs []int64) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.students[studentID]; !ok {
			return dangling(dberrors.EnrollmentStudentFKey)
		}
		for _, id := range subjectIDs {
			if _, ok := st.subjects[id]; !ok {
				return dangling(dberrors.EnrollmentSubjectFKey)
			}
		}
		for e := range st.enrollments {
			if e.studentID == studentID {
				delete(st.enrollments, e)
			}
		}
		for _, id := range subjectIDs {
			st.enrollments[enrollment{subjectID: id, studentID: studentID}] = struct{}{}
		}
		return nil
	})
}

func (r studentRepo) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.students[id]; !ok {
			return notFound("student")
		}
		for e := range st.enrollments {
			if e.studentID == id {
				delete(st.enrollments, e)
			}
		}
		delete(st.students, id)
		return nil
	})
}

func (r studentRepo) filter(ctx context.Context, keep func(*state, models.Student) bool) ([]*models.Student, error) {
	var out []*models.Student
	err := r.s.read(ctx, func(st *state) error {
		out = []*models.Student{}
		for _, id := range sortedKeys(st.students) {
			if keep(st, st.students[id]) {
				out = append(out, st.student(id))
			}
		}
		return nil
	})
	return out, err
}

func checkStudentRefs(st *state, s *models.Student, self int64) error {
	if _, ok := st.courses[s.CourseID]; !ok {
		return dangling(dberrors.StudentCourseFKey)
	}
	for id, other := range st.students {
		if id != self && other.Email == s.Email {
			return duplicate(dberrors.StudentEmailKey)
		}
	}
	return nil
}
