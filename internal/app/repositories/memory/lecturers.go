package memory

import (
	"context"

	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
)

type lecturerRepo struct{ s *Store }

func (r lecturerRepo) Create(ctx context.Context, l *models.Lecturer) (int64, error) {
	var id int64
	err := r.s.write(ctx, func(st *state) error {
		if lecturerEmailTaken(st, l.Email, 0) {
			return duplicate(dberrors.LecturerEmailKey)
		}
		st.seq.lecturer++
		id = st.seq.lecturer
		stored := *l
		stored.ID = id
		st.lecturers[id] = stored
		return nil
	})
	return id, err
}

func (r lecturerRepo) GetByID(ctx context.Context, id int64) (*models.Lecturer, error) {
	var out *models.Lecturer
	err := r.s.read(ctx, func(st *state) error {
		l, ok := st.lecturers[id]
		if !ok {
			return notFound("lecturer")
		}
		out = &l
		return nil
	})
	return out, err
}

func (r lecturerRepo) List(ctx context.Context) ([]*models.Lecturer, error) {
	var out []*models.Lecturer
	err := r.s.read(ctx, func(st *state) error {
		out = make([]*models.Lecturer, 0, len(st.lecturers))
		for _, id := range sortedKeys(st.lecturers) {
			l := st.lecturers[id]
			out = append(out, &l)
		}
		return nil
	})
	return out, err
}

func (r lecturerRepo) Update(ctx context.Context, l *models.Lecturer) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.lecturers[l.ID]; !ok {
			return notFound("lecturer")
		}
		if lecturerEmailTaken(st, l.Email, l.ID) {
			return duplicate(dberrors.LecturerEmailKey)
		}
		st.lecturers[l.ID] = *l
		return nil
	})
}

func (r lecturerRepo) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.lecturers[id]; !ok {
			return notFound("lecturer")
		}
		for _, s := range st.subjects {
			if s.LecturerID == id {
				return referenced(dberrors.SubjectLecturerFKey)
			}
		}
		delete(st.lecturers, id)
		return nil
	})
}

func lecturerEmailTaken(st *state, email string, except int64) bool {
	for id, l := range st.lecturers {
		if id != except && l.Email == email {
			return true
		}
	}
	return false
}
