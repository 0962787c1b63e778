package memory

import (
	"context"

	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/pkg/dberrors"
)

type courseRepo struct{ s *Store }

func (r courseRepo) Create(ctx context.Context, c *models.Course) (int64, error) {
	var id int64
	err := r.s.write(ctx, func(st *state) error {
		if courseNameTaken(st, c.Name, 0) {
			return duplicate(dberrors.CourseNameKey)
		}
		st.seq.course++
		id = st.seq.course
		stored := *c
		stored.ID = id
		st.courses[id] = stored
		return nil
	})
	return id, err
}

func (r courseRepo) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	var out *models.Course
	err := r.s.read(ctx, func(st *state) error {
		c, ok := st.courses[id]
		if !ok {
			return notFound("course")
		}
		out = &c
		return nil
	})
	return out, err
}

func (r courseRepo) List(ctx context.Context) ([]*models.Course, error) {
	var out []*models.Course
	err := r.s.read(ctx, func(st *state) error {
		out = make([]*models.Course, 0, len(st.courses))
		for _, id := range sortedKeys(st.courses) {
			c := st.courses[id]
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r courseRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.s.read(ctx, func(st *state) error {
		n = len(st.courses)
		return nil
	})
	return n, err
}

func (r courseRepo) Update(ctx context.Context, c *models.Course) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.courses[c.ID]; !ok {
			return notFound("course")
		}
		if courseNameTaken(st, c.Name, c.ID) {
			return duplicate(dberrors.CourseNameKey)
		}
		st.courses[c.ID] = *c
		return nil
	})
}

// Delete is restricted by students and subjects, like the schema's foreign keys.
func (r courseRepo) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.courses[id]; !ok {
			return notFound("course")
		}
		for _, s := range st.students {
			if s.CourseID == id {
				return referenced(dberrors.StudentCourseFKey)
			}
		}
		for _, s := range st.subjects {
			if s.CourseID == id {
				return referenced(dberrors.SubjectCourseFKey)
			}
		}
		delete(st.courses, id)
		return nil
	})
}

func courseNameTaken(st *state, name string, except int64) bool {
	for id, c := range st.courses {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}
