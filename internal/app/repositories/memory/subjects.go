package memory

import (
	"context"
	"slices"

	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
)

type subjectRepo struct{ s *Store }

func (r subjectRepo) Create(ctx context.Context, s *models.Subject) (int64, error) {
	var id int64
	err := r.s.write(ctx, func(st *state) error {
		if err := checkSubjectRefs(st, s, 0); err != nil {
			return err
		}
		st.seq.subject++
		id = st.seq.subject
		stored := *s
		stored.ID = id
		stored.StudentIDs = nil
		st.subjects[id] = stored
		return nil
	})
	return id, err
}

func (r subjectRepo) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	var out *models.Subject
	err := r.s.read(ctx, func(st *state) error {
		if _, ok := st.subjects[id]; !ok {
			return notFound("subject")
		}
		out = st.subject(id)
		return nil
	})
	return out, err
}

func (r subjectRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Subject, error) {
	return r.filter(ctx, func(st *state, s models.Subject) bool {
		return slices.Contains(ids, s.ID)
	})
}

func (r subjectRepo) List(ctx context.Context) ([]*models.Subject, error) {
	return r.filter(ctx, func(*state, models.Subject) bool { return true })
}

func (r subjectRepo) ListByCourse(ctx context.Context, courseID int64) ([]*models.Subject, error) {
	return r.filter(ctx, func(_ *state, s models.Subject) bool { return s.CourseID == courseID })
}

func (r subjectRepo) ListByLecturer(ctx context.Context, lecturerID int64) ([]*models.Subject, error) {
	return r.filter(ctx, func(_ *state, s models.Subject) bool { return s.LecturerID == lecturerID })
}

func (r subjectRepo) ListByStudent(ctx context.Context, studentID int64) ([]*models.Subject, error) {
	return r.filter(ctx, func(st *state, s models.Subject) bool {
		_, ok := st.enrollments[enrollment{subjectID: s.ID, studentID: studentID}]
		return ok
	})
}

func (r subjectRepo) CountByLecturer(ctx context.Context, lecturerID int64) (int, error) {
	subjects, err := r.ListByLecturer(ctx, lecturerID)
	return len(subjects), err
}

func (r subjectRepo) Update(ctx context.Context, s *models.Subject) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.subjects[s.ID]; !ok {
			return notFound("subject")
		}
		if err := checkSubjectRefs(st, s, s.ID); err != nil {
			return err
		}
		stored := *s
		stored.StudentIDs = nil
		st.subjects[s.ID] = stored
		return nil
	})
}

func (r subjectRepo) SetStudents(ctx context.Context, subjectID int64, studentIDs []int64) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.subjects[subjectID]; !ok {
			return dangling(dberrors.EnrollmentSubjectFKey)
		}
		for _, id := range studentIDs {
			if _, ok := st.students[id]; !ok {
				return dangling(dberrors.EnrollmentStudentFKey)
			}
		}
		for e := range st.enrollments {
			if e.subjectID == subjectID {
				delete(st.enrollments, e)
			}
		}
		for _, id := range studentIDs {
			st.enrollments[enrollment{subjectID: subjectID, studentID: id}] = struct{}{}
		}
		return nil
	})
}

func (r subjectRepo) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.subjects[id]; !ok {
			return notFound("subject")
		}
		deleteSubject(st, id)
		return nil
	})
}

func (r subjectRepo) DeleteByCourse(ctx context.Context, courseID int64) (int64, error) {
	var n int64
	err := r.s.write(ctx, func(st *state) error {
		for id, s := range st.subjects {
			if s.CourseID == courseID {
				deleteSubject(st, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r subjectRepo) filter(ctx context.Context, keep func(*state, models.Subject) bool) ([]*models.Subject, error) {
	var out []*models.Subject
	err := r.s.read(ctx, func(st *state) error {
		out = []*models.Subject{}
		for _, id := range sortedKeys(st.subjects) {
			if keep(st, st.subjects[id]) {
				out = append(out, st.subject(id))
			}
		}
		return nil
	})
	return out, err
}

func deleteSubject(st *state, id int64) {
	for e := range st.enrollments {
		if e.subjectID == id {
			delete(st.enrollments, e)
		}
	}
	delete(st.subjects, id)
}

func checkSubjectRefs(st *state, s *models.Subject, self int64) error {
	if _, ok := st.courses[s.CourseID]; !ok {
		return dangling(dberrors.SubjectCourseFKey)
	}
	if _, ok := st.lecturers[s.LecturerID]; !ok {
		return dangling(dberrors.SubjectLecturerFKey)
	}
	for id, other := range st.subjects {
		if id != self && other.Name == s.Name && other.CourseID == s.CourseID {
			return duplicate(dberrors.SubjectNameCourseKey)
		}
	}
	return nil
}
